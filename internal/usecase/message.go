package usecase

import (
	"strconv"
	"strings"

	"TradeFire/internal/domain/models"
)

const DefaultSubject = "TradeFire Alert"

// RenderMessage builds the alert text:
//
//	🔥 LONG BTCUSD
//	Signal: breakout
//	Entry: 100.00
//	SL: 98.50
//	TP: 103.00
//
// Entry, SL and TP lines are left out when the value is unknown.
func RenderMessage(subject string, sig models.Signal, lv models.Levels) models.Message {
	if subject == "" {
		subject = DefaultSubject
	}

	var b strings.Builder
	b.WriteString("🔥 ")
	b.WriteString(string(sig.Direction))
	b.WriteByte(' ')
	b.WriteString(sig.Symbol)
	b.WriteString("\nSignal: ")
	b.WriteString(sig.Name)
	writePrice(&b, "Entry", sig.Price)
	writePrice(&b, "SL", lv.StopLoss)
	writePrice(&b, "TP", lv.TakeProfit)

	return models.Message{Subject: subject, Body: b.String()}
}

func writePrice(b *strings.Builder, label string, v *float64) {
	if v == nil {
		return
	}
	b.WriteByte('\n')
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(strconv.FormatFloat(*v, 'f', 2, 64))
}
