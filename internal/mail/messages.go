package mail

import (
	"fmt"

	"github.com/lexikon-app/lexikon/internal/render"
	"github.com/lexikon-app/lexikon/params"
)

func SendOTPCode(sender MailSender, toEmail string, otpCode string) error {
	vars := map[string]interface{}{
		"otpCode":       otpCode,
		"expireMinutes": int(params.OTPExpiration.Minutes()),
	}
	body, err := render.RenderHTML("mail/otp-code", vars)
	if err != nil {
		return err
	}
	return sender.Send(&Message{
		To:      []string{toEmail},
		Subject: fmt.Sprintf("%s is your verification code", otpCode),
		Body:    body,
		IsHTML:  true,
	})
}

func SendVerificationLink(sender MailSender, toEmail string, verifyURL string) error {
	vars := map[string]interface{}{
		"verifyURL":   verifyURL,
		"expireHours": int(params.EmailVerifyTokenTTL.Hours()),
	}
	body, err := render.RenderHTML("mail/verify-email", vars)
	if err != nil {
		return err
	}
	return sender.Send(&Message{
		To:      []string{toEmail},
		Subject: "Please verify your email address",
		Body:    body,
		IsHTML:  true,
	})
}
