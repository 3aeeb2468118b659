// Package main is an example of a minimal program using the dhwani event
// dispatcher.
//
// To run this example:
//
//	cd example
//	go run .
package main

import (
	"context"
	"time"

	"github.com/shashiranjanraj/dhwani/pkg/event"
	"github.com/shashiranjanraj/dhwani/pkg/logger"
)

type userRegistered struct {
	Email string
}

func main() {
	ctx := context.Background()

	d := event.New(event.WithErrorHandler(event.LogErrors))
	registered := event.NewTopic[userRegistered](d, "user.registered")

	// Synchronous listener: runs inline, in registration order.
	off := registered.On(func(ctx context.Context, u userRegistered) error {
		logger.Info("provisioning account", "email", u.Email)
		return nil
	})
	defer off()

	// Asynchronous listener: started during emission, awaited by FireWait.
	registered.OnAsync(func(ctx context.Context, u userRegistered) error {
		time.Sleep(100 * time.Millisecond) // pretend to call a mail service
		logger.Info("welcome mail sent", "email", u.Email)
		return nil
	})

	// Fire-and-forget: returns immediately, the mail listener keeps running.
	registered.Fire(ctx, userRegistered{Email: "ada@example.com"})
	logger.Info("emission started, not waiting")

	// Awaited: blocks until every listener has settled.
	registered.FireWait(ctx, userRegistered{Email: "grace@example.com"})
	logger.Info("all listeners settled")
}
