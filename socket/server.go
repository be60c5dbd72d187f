package socket

import (
	"context"
	"errors"
	"net/http"

	socketio "github.com/googollee/go-socket.io"
	"go.uber.org/zap"

	"coolbooks_server/models"
)

const namespace = "/"

// Server pushes newly created listings to clients subscribed to their type
type Server struct {
	io  *socketio.Server
	log *zap.Logger
}

// RoomForType is the room clients join to hear about listings of bookType
func RoomForType(bookType string) string {
	return models.TypeRoomPrefix + bookType
}

// NewSocketServer initializes and returns a new Socket.IO server
func NewSocketServer(log *zap.Logger) *Server {
	server := socketio.NewServer(nil)

	// Handle connection events
	server.OnConnect(namespace, func(c socketio.Conn) error {
		log.Debug("socket connected", zap.String("socket_id", c.ID()))
		return nil
	})

	// Handle subscribe events, one book type per event
	server.OnEvent(namespace, "subscribe", func(c socketio.Conn, bookType string) {
		if bookType == "" {
			log.Debug("subscribe without type", zap.String("socket_id", c.ID()))
			return
		}
		c.Join(RoomForType(bookType))
	})

	server.OnEvent(namespace, "unsubscribe", func(c socketio.Conn, bookType string) {
		c.Leave(RoomForType(bookType))
	})

	server.OnError(namespace, func(c socketio.Conn, err error) {
		log.Warn("socket error", zap.Error(err))
	})

	// Handle disconnection
	server.OnDisconnect(namespace, func(c socketio.Conn, reason string) {
		log.Debug("socket disconnected", zap.String("socket_id", c.ID()), zap.String("reason", reason))
	})

	return &Server{io: server, log: log}
}

// Handler serves the socket.io protocol
func (s *Server) Handler() http.Handler {
	return s.io
}

// Serve runs the socket.io event loop until Close is called
func (s *Server) Serve() error {
	return s.io.Serve()
}

func (s *Server) Close() error {
	return s.io.Close()
}

// NotifyListingCreated broadcasts the listing to the room of its type
func (s *Server) NotifyListingCreated(_ context.Context, listing models.Listing) error {
	if !s.io.BroadcastToRoom(namespace, RoomForType(listing.Type), models.EventNewListing, listing) {
		return errors.New("socket.io broadcast failed")
	}
	return nil
}
