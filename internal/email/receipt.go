// Package email renders the messages shared by every sender backend.
package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"expensedesk/internal/port"
)

// Receipt is a rendered submission receipt.
type Receipt struct {
	Subject string
	Text    string
	HTML    string
}

type receiptData struct {
	port.ReceiptInput
	AppURL    string
	Signature string
	When      string
}

const receiptText = `Hi {{.ToName}},

Your {{.FormTitle}} was received by the accounts office on {{.When}}.
Reference: {{.Reference}}
{{- if .GrandTotal}}
Bills: {{.Rows}}
Grand total: {{.GrandTotal}}
{{- if .Advance}}
Advance taken: {{.Advance}}
{{- end}}
{{- end}}
{{if .AppURL}}
You can review it at {{.AppURL}}
{{end}}
{{.Signature}}
`

const receiptHTML = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">{{.FormTitle}} submitted</h2>
  <p>Hi {{.ToName}},</p>
  <p>Your {{.FormTitle}} was received by the accounts office on {{.When}}.</p>
  <table style="border-collapse: collapse; margin: 16px 0;">
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Reference</td><td><strong>{{.Reference}}</strong></td></tr>
    {{- if .GrandTotal}}
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Bills</td><td>{{.Rows}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Grand total</td><td>{{.GrandTotal}}</td></tr>
    {{- if .Advance}}
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Advance taken</td><td>{{.Advance}}</td></tr>
    {{- end}}
    {{- end}}
  </table>
  {{- if .AppURL}}
  <p style="text-align: center; margin: 30px 0;">
    <a href="{{.AppURL}}" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Open Expense Desk</a>
  </p>
  {{- end}}
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">{{.Signature}}</p>
</body>
</html>`

var (
	textTmpl = texttemplate.Must(texttemplate.New("receipt.txt").Parse(receiptText))
	htmlTmpl = htmltemplate.Must(htmltemplate.New("receipt.html").Parse(receiptHTML))
)

// RenderReceipt renders the receipt for in. appURL is linked from the
// message when set.
func RenderReceipt(in port.ReceiptInput, appURL, signature string) (*Receipt, error) {
	data := receiptData{
		ReceiptInput: in,
		AppURL:       appURL,
		Signature:    signature,
		When:         in.SubmittedAt.Format("02 Jan 2006 15:04 MST"),
	}

	var text, html bytes.Buffer
	if err := textTmpl.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("email.RenderReceipt text: %w", err)
	}
	if err := htmlTmpl.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("email.RenderReceipt html: %w", err)
	}
	return &Receipt{
		Subject: in.FormTitle + " submitted",
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
