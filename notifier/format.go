package notifier

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/models"
)

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// FormatOrderMessage renders an order into the fixed text template posted
// to the chat channel.
func FormatOrderMessage(order *models.Order, event Event) string {
	var b strings.Builder

	header := "🎉 *ORDER CONFIRMED* 🎉"
	footer := "🎉 *Thank you for your purchase!* 🎉"
	if event == EventStatusUpdate {
		header = "🔔 *STATUS UPDATED* 🔔"
		footer = "✅ *Order status has been updated!* ✅"
	}

	shortID := strings.ToUpper(order.ID.String())
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	customerName := order.User.Name
	if customerName == "" {
		customerName = "Customer"
	}
	customerEmail := order.User.Email
	if customerEmail == "" {
		customerEmail = "N/A"
	}

	fmt.Fprintf(&b, "%s\n", header)
	fmt.Fprintf(&b, "✨ *E-Commerce Store* ✨\n\n")
	fmt.Fprintf(&b, "📍 *ORDER #%s*\n\n", shortID)
	fmt.Fprintf(&b, "📅 *%s* at %s\n",
		order.CreatedAt.Format("Jan 2, 2006"),
		order.CreatedAt.Format("03:04 PM"))
	fmt.Fprintf(&b, "⚡ Status: *%s*\n", strings.ToUpper(order.Status))
	fmt.Fprintf(&b, "💳 Payment: *%s*\n\n", models.PaymentMethodLabel(order.PaymentMethod))
	fmt.Fprintf(&b, "👤 *CUSTOMER*\n• %s\n• `%s`\n\n", customerName, customerEmail)

	fmt.Fprintf(&b, "🛍️ *ITEMS*\n")
	for i, item := range order.OrderItems {
		subtotal := item.Price.Mul(decimalFromInt(item.Quantity))
		fmt.Fprintf(&b, "%d. *%s*\n   %dx × $%s = *$%s*\n",
			i+1, item.Product.Name, item.Quantity,
			item.Price.StringFixed(2), subtotal.StringFixed(2))
	}

	fmt.Fprintf(&b, "\n💰 *TOTAL*\n")
	fmt.Fprintf(&b, "  Subtotal:  $%s\n", order.Total.StringFixed(2))
	fmt.Fprintf(&b, "  Tax (0%%):  $0.00\n")
	fmt.Fprintf(&b, "  💎 *GRAND TOTAL: $%s*\n\n", order.Total.StringFixed(2))
	fmt.Fprintf(&b, "%s\n", footer)

	return b.String()
}
