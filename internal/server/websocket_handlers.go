// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"encoding/json"
	"log"

	"stackit/internal/middleware"
	"stackit/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketHandler handles WebSocket connections for notifications and live
// question feeds. Clients send {"type":"watch","question_id":N} to follow a
// question and "unwatch" to stop.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		ctx := context.Background()

		// Get userID from context locals (set by AuthRequired middleware)
		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			log.Printf("WebSocket: Unauthenticated connection attempt")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			log.Printf("WebSocket: Failed to get user %d: %v", userID, err)
			_ = conn.Close()
			return
		}

		if s.hub == nil {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			log.Printf("WebSocket: Failed to register user %d: %v", userID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		client.IncomingHandler = func(c *notifications.Client, message []byte) {
			var incomingMsg map[string]interface{}
			if err := json.Unmarshal(message, &incomingMsg); err != nil {
				log.Printf("WebSocket: Invalid message format from user %d", userID)
				return
			}

			msgType, ok := incomingMsg["type"].(string)
			if !ok {
				return
			}

			switch msgType {
			case "watch":
				if qidFloat, ok := incomingMsg["question_id"].(float64); ok {
					questionID := uint(qidFloat)
					s.hub.Watch(c, questionID)

					response := map[string]interface{}{
						"type":    "watching",
						"payload": map[string]interface{}{"question_id": questionID},
					}
					if respJSON, err := json.Marshal(response); err == nil {
						c.TrySend(respJSON)
					}
				}

			case "unwatch":
				if qidFloat, ok := incomingMsg["question_id"].(float64); ok {
					s.hub.Unwatch(c, uint(qidFloat))
				}
			}
		}

		// Send welcome message
		welcomeMsg := map[string]interface{}{
			"type":    "connected",
			"payload": map[string]interface{}{"user_id": userID, "username": user.Username},
		}
		if welcomeJSON, err := json.Marshal(welcomeMsg); err == nil {
			client.TrySend(welcomeJSON)
		}

		// Start write pump in a goroutine
		go client.WritePump()

		// Read pump runs in the main handler goroutine (blocking)
		client.ReadPump()
	})
}
