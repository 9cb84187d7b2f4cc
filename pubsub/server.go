// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type ServerConfig struct {
	// Size of the ws read buffer
	ReadBufferSize int `json:"readBufferSize" yaml:"readBufferSize"`
	// Size of the ws write buffer
	WriteBufferSize int `json:"writeBufferSize" yaml:"writeBufferSize"`
	// Time allowed to write a message to the peer.
	WriteWait time.Duration `json:"writeWait" yaml:"writeWait"`
	// Time allowed to read the next pong message from the peer.
	PongWait time.Duration `json:"pongWait" yaml:"pongWait"`
	// Send pings to peer with this period. Must be less than pongWait.
	PingPeriod time.Duration `json:"pingPeriod" yaml:"pingPeriod"`
	// Maximum message size in bytes allowed from peer.
	MaxReadMessageSize int `json:"maxReadMessageSize" yaml:"maxReadMessageSize"`
	// Maximum size of a batch sent to a peer.
	MaxWriteMessageSize int `json:"maxWriteMessageSize" yaml:"maxWriteMessageSize"`
	// Maximum number of batches waiting to be written to a peer.
	MaxPendingMessages int `json:"maxPendingMessages" yaml:"maxPendingMessages"`
	// Longest a message waits before its batch is sent.
	MaxMessageWait time.Duration `json:"maxMessageWait" yaml:"maxMessageWait"`
}

func NewDefaultServerConfig() ServerConfig {
	return ServerConfig{
		ReadBufferSize:      ReadBufferSize,
		WriteBufferSize:     WriteBufferSize,
		WriteWait:           WriteWait,
		PongWait:            PongWait,
		PingPeriod:          PingPeriod,
		MaxReadMessageSize:  MaxReadMessageSize,
		MaxWriteMessageSize: MaxWriteMessageSize,
		MaxPendingMessages:  MaxPendingMessages,
		MaxMessageWait:      MaxMessageWait,
	}
}

// Server maintains the set of active clients and sends messages to the clients.
//
// Connect to the server using websocket.DefaultDialer.Dial().
type Server struct {
	log      logging.Logger
	config   ServerConfig
	upgrader *websocket.Upgrader
	// conns a set of all our connections
	conns *Connections
	// Callback function when server receives a message
	callback Callback
	// Called once a connection is registered
	onConnect func(*Connection)
}

// New returns a new Server instance. [callback] is called for every message
// a peer sends, if not nil.
func New(log logging.Logger, config ServerConfig, callback Callback) *Server {
	return &Server{
		log:    log,
		config: config,
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		conns:    NewConnections(),
		callback: callback,
	}
}

// OnConnect registers [f] to run for every new connection before any
// published message reaches it.
func (s *Server) OnConnect(f func(*Connection)) {
	s.onConnect = f
}

// ServeHTTP upgrades the request to a websocket connection and starts
// go routines for reading and writing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade",
			zap.Error(err),
		)
		return
	}
	s.addConnection(&Connection{
		s:    s,
		conn: wsConn,
		mb: NewMessageBuffer(
			s.log,
			s.config.MaxPendingMessages,
			s.config.MaxWriteMessageSize,
			s.config.MaxMessageWait,
		),
	})
}

// Publish sends [msg] to every connection in [toConns] and returns the
// connections that could no longer receive it.
func (s *Server) Publish(msg []byte, toConns *Connections) []*Connection {
	inactive := []*Connection{}
	for _, conn := range toConns.Conns() {
		// check server has connection O(1)
		if !s.conns.Has(conn) {
			inactive = append(inactive, conn)
			continue
		}
		if !conn.Send(msg) {
			s.log.Verbo(
				"dropping message to subscribed connection due to too many pending messages",
			)
		}
	}
	return inactive
}

// Broadcast sends [msg] to every connection.
func (s *Server) Broadcast(msg []byte) {
	_ = s.Publish(msg, s.conns)
}

// Connections returns the set of live connections.
func (s *Server) Connections() *Connections {
	return s.conns
}

// addConnection adds [conn] to the servers connection set and starts go
// routines for reading and writing messages for the connection.
func (s *Server) addConnection(conn *Connection) {
	conn.active.Store(true)
	if s.onConnect != nil {
		s.onConnect(conn)
	}
	s.conns.Add(conn)

	go conn.writePump()
	go conn.readPump()
}

// removeConnection removes [conn] from the servers connection set.
func (s *Server) removeConnection(conn *Connection) {
	s.conns.Remove(conn)
}
