package email

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/cresenventures/backend/internal/models"
)

var orderConfirmationTemplate = template.Must(template.New("order_confirmation").Parse(`Hi {{.Name}},

Thanks for your order with {{.StoreName}}!

Order ID: {{.OrderID}}
{{range .Items}}  - {{.Title}} x{{.Quantity}} ({{printf "%.2f" .Price}})
{{end}}Shipping fee: {{printf "%.2f" .ShippingFee}}

{{if .Paid}}Your payment has been received and the order is confirmed.{{else}}Your order is confirmed and will be collected on delivery.{{end}}

We'll let you know as soon as it ships.
`))

var dispatchNoticeTemplate = template.Must(template.New("dispatch_notice").Parse(`Hi {{.Name}},

Good news: your {{.StoreName}} order {{.OrderID}} is on its way.

Tracking code: {{.ShippingCode}}

Thanks for shopping with us!
`))

type orderEmailData struct {
	Name         string
	StoreName    string
	OrderID      string
	Items        []models.LineItem
	ShippingFee  float64
	Paid         bool
	ShippingCode string
}

// OrderConfirmation renders the email sent when an order is finalized or
// manually confirmed.
func OrderConfirmation(storeName string, order *models.Order) (*Email, error) {
	body, err := render(orderConfirmationTemplate, orderEmailData{
		Name:        order.Name,
		StoreName:   storeName,
		OrderID:     order.ID.String(),
		Items:       order.Items,
		ShippingFee: order.ShippingFee,
		Paid:        order.PaymentID != "",
	})
	if err != nil {
		return nil, err
	}
	return &Email{
		To:      order.Email,
		Subject: fmt.Sprintf("Your %s order is confirmed", storeName),
		Text:    body,
	}, nil
}

// DispatchNotice renders the email sent when an order ships.
func DispatchNotice(storeName string, order *models.Order) (*Email, error) {
	body, err := render(dispatchNoticeTemplate, orderEmailData{
		Name:         order.Name,
		StoreName:    storeName,
		OrderID:      order.ID.String(),
		ShippingCode: order.ShippingCode,
	})
	if err != nil {
		return nil, err
	}
	return &Email{
		To:      order.Email,
		Subject: fmt.Sprintf("Your %s order has shipped", storeName),
		Text:    body,
	}, nil
}

func render(tpl *template.Template, data orderEmailData) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", tpl.Name(), err)
	}
	return buf.String(), nil
}
