// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package broadnats is a thin NATS client for the broad-phase engine:
// one singleton connection, publishing candidate-pair results and
// (optionally) ingesting line updates. Adapted from the teacher's generic
// pkg/nats client — same connection-management/reconnect/subscription
// shape, narrowed to the two subjects this engine actually uses.
package broadnats

import (
	"context"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/linequad/linequad/pkg/log"
)

var (
	clientOnce     sync.Once
	clientInstance *Client
)

// Client wraps a NATS connection with subscription management. Safe for
// concurrent use.
type Client struct {
	conn          *nats.Conn
	subscriptions []*nats.Subscription
	mu            sync.Mutex
}

// MessageHandler is a callback for processing received messages.
type MessageHandler func(subject string, data []byte)

// Connect initializes the singleton client from the global Keys config. A
// missing address is not an error — NATS is optional ambient plumbing, not
// a requirement for running the engine standalone.
func Connect() {
	clientOnce.Do(func() {
		if Keys.Address == "" {
			log.Info("broadnats: no address configured, skipping connection")
			return
		}

		client, err := NewClient(nil)
		if err != nil {
			log.Warnf("broadnats: connection failed: %v", err)
			return
		}

		clientInstance = client
	})
}

// GetClient returns the singleton client, or nil if Connect was never
// called or failed.
func GetClient() *Client {
	if clientInstance == nil {
		log.Warn("broadnats: client not initialized")
	}
	return clientInstance
}

// NewClient creates a client. If cfg is nil, the global Keys config is used.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Keys
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("broadnats: address is required")
	}

	var opts []nats.Option

	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}
	if cfg.CredsFilePath != "" {
		opts = append(opts, nats.UserCredentials(cfg.CredsFilePath))
	}

	opts = append(opts, nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
		if err != nil {
			log.Warnf("broadnats: disconnected: %v", err)
		}
	}))
	opts = append(opts, nats.ReconnectHandler(func(nc *nats.Conn) {
		log.Infof("broadnats: reconnected to %s", nc.ConnectedUrl())
	}))
	opts = append(opts, nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
		log.Errorf("broadnats: error: %v", err)
	}))

	nc, err := nats.Connect(cfg.Address, opts...)
	if err != nil {
		return nil, fmt.Errorf("broadnats: connect failed: %w", err)
	}
	log.Infof("broadnats: connected to %s", cfg.Address)

	return &Client{
		conn:          nc,
		subscriptions: make([]*nats.Subscription, 0),
	}, nil
}

// Subscribe registers a handler for messages on subject.
func (c *Client) Subscribe(subject string, handler MessageHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("broadnats: subscribe to '%s' failed: %w", subject, err)
	}
	c.subscriptions = append(c.subscriptions, sub)
	log.Infof("broadnats: subscribed to '%s'", subject)
	return nil
}

// Publish sends data to subject.
func (c *Client) Publish(subject string, data []byte) error {
	if err := c.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("broadnats: publish to '%s' failed: %w", subject, err)
	}
	return nil
}

// Request sends a request and waits for a response, bounded by ctx.
func (c *Client) Request(subject string, data []byte, ctx context.Context) ([]byte, error) {
	msg, err := c.conn.RequestWithContext(ctx, subject, data)
	if err != nil {
		return nil, fmt.Errorf("broadnats: request to '%s' failed: %w", subject, err)
	}
	return msg.Data, nil
}

// Flush flushes the connection buffer.
func (c *Client) Flush() error {
	return c.conn.Flush()
}

// Close unsubscribes everything and closes the connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, sub := range c.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			log.Warnf("broadnats: unsubscribe failed: %v", err)
		}
	}
	c.subscriptions = nil

	if c.conn != nil {
		c.conn.Close()
		log.Info("broadnats: connection closed")
	}
}

// IsConnected reports whether the client has an active connection.
func (c *Client) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}
