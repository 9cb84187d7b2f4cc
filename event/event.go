// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"context"
	"errors"
	"fmt"
)

var _ Subscription[Record[struct{}]] = (*SubscriptionFunc[Record[struct{}]])(nil)

// Record is a single entry of a [Log].
type Record[T any] struct {
	Seq   uint64 `json:"seq"`
	Value T      `json:"value"`
}

// Subscription consumes the records of a [Log].
type Subscription[T any] interface {
	// Accept returns fatal errors
	Accept(ctx context.Context, t T) error
	// Close is called once, when the subscription is cancelled or the log
	// is closed.
	Close() error
}

// SubscriptionFunc adapts plain functions to a [Subscription]. CloseF may
// be nil.
type SubscriptionFunc[T any] struct {
	AcceptF func(ctx context.Context, t T) error
	CloseF  func() error
}

func (s SubscriptionFunc[T]) Accept(ctx context.Context, t T) error {
	return s.AcceptF(ctx, t)
}

func (s SubscriptionFunc[_]) Close() error {
	if s.CloseF == nil {
		return nil
	}
	return s.CloseF()
}

// notify hands [r] to every subscriber, even after one of them fails.
func notify[T any](ctx context.Context, r Record[T], subs []Subscription[Record[T]]) error {
	var errs []error
	for _, sub := range subs {
		if err := sub.Accept(ctx, r); err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", r.Seq, err))
		}
	}
	return errors.Join(errs...)
}
