package notify

import (
	"fmt"

	"TradeFire/internal/domain/models"
	domrepo "TradeFire/internal/domain/repository"
	"TradeFire/pkg/config"
	pkghttp "TradeFire/pkg/http"
	"TradeFire/pkg/logger"
	"TradeFire/pkg/mail"
)

// BuildSenders returns a sender for every channel with credentials. Channels
// left out are reported as SKIPPED by the dispatcher.
func BuildSenders(cfg *config.Config, l *logger.Logger) (domrepo.Senders, error) {
	senders := domrepo.Senders{}

	if cfg.EmailConfigured() {
		m, err := mail.New(mail.Config{
			Host:        cfg.Email.Host,
			Port:        cfg.Email.Port,
			Username:    cfg.Email.User,
			Password:    cfg.Email.Password,
			From:        cfg.Email.From,
			NoVerify:    cfg.Email.NoVerify,
			SendTimeout: cfg.Email.SendTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("email sender: %w", err)
		}
		senders[models.ChannelEmail] = NewEmailSender(m)
	} else {
		l.Warn("email channel not configured, email alerts will be skipped")
	}

	if cfg.SMSConfigured() {
		client := pkghttp.NewClient(pkghttp.WithTimeout(cfg.Twilio.Timeout))
		senders[models.ChannelSMS] = NewSMSSender(client, TwilioConfig{
			AccountSID: cfg.Twilio.AccountSID,
			AuthToken:  cfg.Twilio.AuthToken,
			From:       cfg.Twilio.From,
			BaseURL:    cfg.Twilio.BaseURL,
		})
	} else {
		l.Warn("twilio not configured, sms alerts will be skipped")
	}

	return senders, nil
}
