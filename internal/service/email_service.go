package service

import (
	"context"
	"net"
	"strings"

	"ai-pdfstudy-be/internal/dto"
	"ai-pdfstudy-be/internal/pkg/serverutils"
)

const (
	emailValid   = 200
	emailInvalid = 500
)

// DomainResolver is the subset of net.Resolver used to check deliverability.
type DomainResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

type IEmailService interface {
	CheckValidity(ctx context.Context, email string) *dto.EmailValidityResponse
}

type emailService struct {
	resolver DomainResolver
}

func NewEmailService(resolver DomainResolver) IEmailService {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &emailService{resolver: resolver}
}

func (s *emailService) CheckValidity(ctx context.Context, email string) *dto.EmailValidityResponse {
	normalized, reason := s.validate(ctx, strings.TrimSpace(email))
	if reason != "" {
		return &dto.EmailValidityResponse{Result: reason, Status: emailInvalid}
	}
	return &dto.EmailValidityResponse{Result: normalized, Status: emailValid}
}

// validate returns the normalized address, or a reason it was rejected.
func (s *emailService) validate(ctx context.Context, email string) (normalized string, reason string) {
	if email == "" {
		return "", "An email address must be provided."
	}
	if err := serverutils.ValidateVar(email, "email"); err != nil {
		return "", "The email address is not valid. It must have exactly one @-sign and a valid domain."
	}

	at := strings.LastIndex(email, "@")
	normalized = email[:at] + "@" + strings.ToLower(email[at+1:])
	domain := normalized[at+1:]

	if mx, err := s.resolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return normalized, ""
	}
	if hosts, err := s.resolver.LookupHost(ctx, domain); err == nil && len(hosts) > 0 {
		return normalized, ""
	}
	return "", "The domain name " + domain + " does not accept email."
}
