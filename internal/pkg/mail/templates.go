package mail

import (
	"bytes"
	"html/template"
)

var otpTemplate = template.Must(template.New("otp").Parse(`
<div style="font-family: -apple-system, 'Segoe UI', sans-serif; max-width: 480px; margin: 0 auto;">
  <h2 style="color: #1a1a1a;">Your sign-in code</h2>
  <p>Use this code to sign in to the studio dashboard. It expires in {{.TTLMinutes}} minutes.</p>
  <p style="font-size: 32px; letter-spacing: 8px; font-weight: 700; color: #1a1a1a;">{{.Code}}</p>
  <p style="color: #888; font-size: 13px;">If you did not request this code, you can ignore this email.</p>
</div>
`))

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<div style="font-family: -apple-system, 'Segoe UI', sans-serif; max-width: 480px; margin: 0 auto;">
  <h2 style="color: #1a1a1a;">Welcome aboard</h2>
  <p>Thanks for subscribing. You'll hear from me when new albums and prints go up, and not otherwise.</p>
  <p style="color: #888; font-size: 13px;">
    Changed your mind? <a href="{{.UnsubscribeURL}}">Unsubscribe</a> any time.
  </p>
</div>
`))

// RenderOTP builds the one-time sign-in code email body.
func RenderOTP(code string, ttlMinutes int) (string, error) {
	var buf bytes.Buffer
	err := otpTemplate.Execute(&buf, map[string]interface{}{
		"Code":       code,
		"TTLMinutes": ttlMinutes,
	})
	return buf.String(), err
}

// RenderWelcome builds the newsletter welcome email body.
func RenderWelcome(unsubscribeURL string) (string, error) {
	var buf bytes.Buffer
	err := welcomeTemplate.Execute(&buf, map[string]interface{}{
		"UnsubscribeURL": unsubscribeURL,
	})
	return buf.String(), err
}
