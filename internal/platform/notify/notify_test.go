package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type fakeSMS struct {
	sent    []string
	failFor string
}

func (f *fakeSMS) SendSMS(ctx context.Context, to, body string) error {
	if to == f.failFor {
		return errors.New("undeliverable")
	}
	f.sent = append(f.sent, to)
	return nil
}

func TestNotifyAll_ContinuesPastFailures(t *testing.T) {
	sender := &fakeSMS{failFor: "+14045550102"}
	phones := []string{"+14045550101", "+14045550102", "+14045550103"}

	NotifyAll(context.Background(), sender, zerolog.Nop(), phones, "run complete")

	if len(sender.sent) != 2 {
		t.Fatalf("delivered = %v, want the two deliverable phones", sender.sent)
	}
	if sender.sent[0] != "+14045550101" || sender.sent[1] != "+14045550103" {
		t.Errorf("delivered = %v", sender.sent)
	}
}
