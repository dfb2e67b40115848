package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"quiz-reader/internal/app"
	"quiz-reader/internal/domain"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Question *int `json:"question"`
	Option   *int `json:"option"`
}

type joinedPayload struct {
	UserID      string             `json:"userId"`
	Leaderboard domain.Leaderboard `json:"leaderboard"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}

// ServeWS upgrades to a websocket, joins the caller to the quiz and plays it:
// the client receives "joined" and "questions", answers with
// {"type":"answer","payload":{"question":1,"option":0}} and gets
// "answerResult" plus "leaderboard" updates. A missing userId is generated.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	userID := r.URL.Query().Get("userId")
	displayName := r.URL.Query().Get("name")
	if quizID == "" || displayName == "" {
		http.Error(w, "missing quizId or name", http.StatusBadRequest)
		return
	}
	if userID == "" {
		userID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	joined, err := h.service.Join(r.Context(), quizID, userID, displayName)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err.Error()))
		return
	}
	defer h.service.Leave(r.Context(), quizID, userID)

	questions, err := h.service.Questions(r.Context(), quizID)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err.Error()))
		return
	}

	updates, cancel, err := h.service.Subscribe(r.Context(), quizID)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err.Error()))
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer: gorilla connections do not support concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// Queued before the update pump starts so clients always see these first.
	send <- outboundMessage[any]{Type: "joined", Payload: joinedPayload{UserID: userID, Leaderboard: joined}}
	send <- outboundMessage[any]{Type: "questions", Payload: questions}

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "leaderboard", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Question == nil || payload.Option == nil {
				send <- errorMessage("invalid answer payload")
				continue
			}
			result, lb, err := h.service.SubmitAnswer(r.Context(), quizID, userID, domain.AnswerSubmission{
				QuestionNumber: *payload.Question,
				OptionIndex:    *payload.Option,
			})
			if err != nil {
				send <- errorMessage(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "answerResult", Payload: result}
			send <- outboundMessage[any]{Type: "leaderboard", Payload: lb}
		default:
			send <- errorMessage("unsupported message type")
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
