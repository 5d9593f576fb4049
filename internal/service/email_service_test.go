package service

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeResolver struct {
	mx    map[string]bool
	hosts map[string]bool
}

func (r fakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if r.mx[name] {
		return []*net.MX{{Host: "mx." + name, Pref: 10}}, nil
	}
	return nil, errors.New("no such host")
}

func (r fakeResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	if r.hosts[host] {
		return []string{"192.0.2.1"}, nil
	}
	return nil, errors.New("no such host")
}

func TestCheckValidity(t *testing.T) {
	svc := NewEmailService(fakeResolver{
		mx:    map[string]bool{"example.com": true},
		hosts: map[string]bool{"a-only.org": true},
	})

	tests := []struct {
		name   string
		email  string
		result string
		status int
	}{
		{"normalizes domain", "Jane.Doe@Example.COM", "Jane.Doe@example.com", 200},
		{"falls back to address records", "x@a-only.org", "x@a-only.org", 200},
		{"empty", "", "An email address must be provided.", 500},
		{"syntax", "not-an-email", "The email address is not valid. It must have exactly one @-sign and a valid domain.", 500},
		{"undeliverable", "x@nowhere.test", "The domain name nowhere.test does not accept email.", 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := svc.CheckValidity(context.Background(), tt.email)
			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, tt.result, res.Result)
		})
	}
}
