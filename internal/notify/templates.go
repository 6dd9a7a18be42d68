package notify

import (
	"bytes"
	"html/template"
)

const layout = `{{define "layout"}}<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background: #001f3f; color: white; padding: 20px; text-align: center; }
  .content { background: #f9f9f9; padding: 20px; }
  .box { background: white; padding: 15px; margin: 15px 0; border-radius: 5px; }
  .footer { text-align: center; padding: 20px; color: #666; }
</style>
</head>
<body>
<div class="container">
  <div class="header"><h1>TechStore</h1><h2>{{.Title}}</h2></div>
  <div class="content">
    <p>Hi {{.Name}},</p>
    {{template "body" .}}
    <p>Thank you for shopping with TechStore!</p>
  </div>
  <div class="footer"><p>&copy; TechStore. All rights reserved.</p></div>
</div>
</body>
</html>{{end}}`

const orderBody = `{{define "body"}}
<p>Thank you for your order! We're getting it ready to be shipped.</p>
<div class="box">
  <h3>Order Details</h3>
  <p><strong>Order Number:</strong> {{.Order.OrderNumber}}</p>
  <p><strong>Order Date:</strong> {{.Order.CreatedAt.Format "2006-01-02"}}</p>
  <p><strong>Total Amount:</strong> ${{.Order.FinalAmount.StringFixed 2}}</p>
  <h4>Items Ordered:</h4>
  {{range .Order.Items}}<div style="margin: 10px 0; padding: 10px; border-bottom: 1px solid #eee;">
    <strong>{{.Name}}</strong><br>Quantity: {{.Quantity}} &times; ${{.Price.StringFixed 2}}
  </div>{{end}}
</div>
{{if .Guest}}<p><strong>Important:</strong> Save your order number (<strong>{{.Order.OrderNumber}}</strong>) to track your order.</p>{{end}}
<p>We'll notify you when your order ships.</p>
{{end}}`

const shippingBody = `{{define "body"}}
<p>Your order #{{.Order.OrderNumber}} has been {{.Update.Status}}.</p>
<div class="box">
  <h3>Shipping Information</h3>
  <p><strong>Status:</strong> {{.Update.Status}}</p>
  {{with .Update.TrackingNumber}}<p><strong>Tracking Number:</strong> {{.}}</p>{{end}}
  {{with .Update.Carrier}}<p><strong>Carrier:</strong> {{.}}</p>{{end}}
  <p><strong>Estimated Delivery:</strong> {{if .Update.EstimatedDelivery}}{{.Update.EstimatedDelivery.Format "2006-01-02"}}{{else}}Not available{{end}}</p>
</div>
<p>You can track your order anytime on our website.</p>
{{end}}`

var (
	orderTmpl    = template.Must(template.Must(template.New("order").Parse(layout)).Parse(orderBody))
	shippingTmpl = template.Must(template.Must(template.New("shipping").Parse(layout)).Parse(shippingBody))
)

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
