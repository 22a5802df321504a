package service

import (
	"context"
	"time"
)

type Options struct {
	PrivateKey string
	Mainnet    bool
	BaseURL    string
	Timeout    time.Duration
}

// Clients набор клиентов, привязанных к одному ключу.
type Clients struct {
	Transport *Transport
	Info      *InfoClient
	Exchange  *ExchangeClient
	Symbols   *SymbolConverter
	Address   string
}

// NewClients собирает клиентов и загружает справочник рынков.
func NewClients(ctx context.Context, opts Options) (*Clients, error) {
	signer, err := NewSigner(opts.PrivateKey, opts.Mainnet)
	if err != nil {
		return nil, err
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = APIURL(opts.Mainnet)
	}
	transport := NewTransport(baseURL, opts.Timeout)
	info := NewInfoClient(transport)

	symbols, err := NewSymbolConverter(ctx, info)
	if err != nil {
		return nil, err
	}

	return &Clients{
		Transport: transport,
		Info:      info,
		Exchange:  NewExchangeClient(transport, signer),
		Symbols:   symbols,
		Address:   signer.Address(),
	}, nil
}
