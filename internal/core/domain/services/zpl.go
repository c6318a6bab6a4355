package services

import (
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/order"
)

// GeneratePackingSlip renders a packing slip for the order as raw ZPL,
// one row per shippable line.
func GeneratePackingSlip(o *order.Order) string {
	var sb strings.Builder
	sb.WriteString("^XA")
	sb.WriteString("^FO50,40^A0N,30,30^FDPacking Slip^FS")
	fmt.Fprintf(&sb, "^FO50,90^A0N,25,25^FDOrder: %s^FS", o.OrderNumber())

	y := 130
	for _, line := range o.ShippableLines() {
		title := line.Title()
		if title == "" {
			title = line.SKU()
		}
		fmt.Fprintf(&sb, "^FO50,%d^A0N,22,22^FD%d x %s^FS", y, line.Quantity(), title)
		y += 30
	}

	sb.WriteString("^XZ")
	return sb.String()
}
