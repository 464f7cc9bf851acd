package handlers

import "github.com/go-chi/chi/v5"

// Register mounts the API surface on the given router. Middleware, CORS,
// and the websocket endpoint are wired by the caller.
func Register(r chi.Router, rooms *RoomHandler, messages *MessageHandler, auth *AuthHandler) {
	r.Route("/api", func(r chi.Router) {
		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", rooms.ListRooms)
			r.Post("/", rooms.CreateRoom)
			r.Get("/{id}", rooms.GetRoom)
			r.Delete("/{id}", rooms.DeleteRoom)
			r.Post("/{id}/join-request", rooms.RequestJoin)
			r.Get("/{id}/requests", rooms.ListRequests)
			r.Post("/{id}/requests/{username}/approve", rooms.ApproveRequest)
			r.Post("/{id}/requests/{username}/decline", rooms.DeclineRequest)
			r.Get("/{id}/members", rooms.ListMembers)
			r.Post("/{id}/members/{username}/kick", rooms.KickMember)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Get("/{roomId}", messages.ListMessages)
			r.Post("/", messages.SendMessage)
			r.Put("/{messageId}", messages.EditMessage)
			r.Delete("/{messageId}", messages.DeleteMessage)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", auth.Signup)
			r.Post("/login", auth.Login)
			r.Post("/logout", auth.Logout)
			r.Get("/users", auth.ListUsers)
		})
	})
}
