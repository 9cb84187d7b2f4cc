// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/solimare/boatvm/actions"
	"github.com/solimare/boatvm/pubsub"
	"github.com/solimare/boatvm/rpc"
)

// formatEvent renders an event on one line with its decoded fields.
func formatEvent(e *rpc.EventReply) string {
	fields := "{}"
	if e.Event != nil {
		if b, err := json.Marshal(e.Event); err == nil {
			fields = string(b)
		}
	}
	prefix := ""
	if e.Seq != 0 {
		prefix = fmt.Sprintf("#%d ", e.Seq)
	}
	return fmt.Sprintf("%s%s tx=%s[%d] %s", prefix, e.Name, e.TxID, e.Index, fields)
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print events the node has published",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		since, err := cmd.Flags().GetUint64("since")
		if err != nil {
			return err
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		events, last, err := client.Events(ctx, since)
		if err != nil {
			return fmt.Errorf("failed to get events: %w", err)
		}
		return printValue(cmd, eventsCmdResponse{Events: events, Last: last})
	},
}

type eventsCmdResponse struct {
	Events []*rpc.EventReply `json:"events"`
	Last   uint64            `json:"last"`
}

func (r eventsCmdResponse) String() string {
	lines := make([]string, 0, len(r.Events)+1)
	for _, e := range r.Events {
		lines = append(lines, formatEvent(e))
	}
	lines = append(lines, fmt.Sprintf("last: %d", r.Last))
	return strings.Join(lines, "\n")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream events over the websocket until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		endpoint, err := getConfigValue(cmd, "endpoint", true)
		if err != nil {
			return fmt.Errorf("failed to get endpoint: %w", err)
		}
		since, err := cmd.Flags().GetUint64("since")
		if err != nil {
			return err
		}
		isJSON, err := isJSONOutputRequested(cmd)
		if err != nil {
			return err
		}
		ws, err := rpc.NewWebSocketClient(
			endpoint,
			10*time.Second,
			pubsub.MaxPendingMessages,
			pubsub.MaxReadMessageSize,
			actions.DecodeEvent,
		)
		if err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		defer ws.Close()
		if err := ws.Subscribe(since); err != nil {
			return fmt.Errorf("failed to subscribe: %w", err)
		}
		for {
			e, err := ws.ListenEvent(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			if isJSON {
				b, err := json.Marshal(e)
				if err != nil {
					return err
				}
				fmt.Println(string(b))
				continue
			}
			fmt.Println(formatEvent(e))
		}
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd, watchCmd)
	eventsCmd.Flags().Uint64("since", 0, "Only return events after this sequence number")
	watchCmd.Flags().Uint64("since", 0, "Replay events after this sequence number first")
}
