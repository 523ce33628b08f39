// Package ws serves the world over websocket. One goroutine per
// connection; world access is serialized behind the server mutex so the
// tick loop and connections never interleave.
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"voxelforge/internal/block"
	"voxelforge/internal/config"
	"voxelforge/internal/fixed"
	"voxelforge/internal/geom"
	"voxelforge/internal/protocol"
	"voxelforge/internal/world"
)

// SaveFunc persists the world and returns the save name. Called with the
// world lock held.
type SaveFunc func(w *world.World) (string, error)

type Server struct {
	mu    sync.Mutex
	world *world.World

	log    *log.Logger
	limits config.RateLimits
	tickHz int
	save   SaveFunc

	upgrader websocket.Upgrader
}

func NewServer(w *world.World, logger *log.Logger, cfg config.Config, save SaveFunc) *Server {
	return &Server{
		world:  w,
		log:    logger,
		limits: cfg.RateLimits,
		tickHz: cfg.TickRateHz,
		save:   save,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// WithWorld runs f with exclusive world access. The tick loop and the
// autosaver go through here.
func (s *Server) WithWorld(f func(w *world.World)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s.world)
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sessionID := s.handshake(conn)
		if sessionID == "" {
			return
		}
		s.log.Printf("session %s connected from %s", sessionID, r.RemoteAddr)

		limiter := rate.NewLimiter(rate.Limit(s.limits.MessagesPerSec), s.limits.Burst)
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil {
				writeJSON(conn, ack(base.Type, false, protocol.ErrProtoBadRequest, "bad json"))
				continue
			}
			if base.ProtocolVersion != protocol.Version {
				writeJSON(conn, ack(base.Type, false, protocol.ErrProtoBadRequest, "bad protocol_version"))
				continue
			}
			if !limiter.Allow() {
				writeJSON(conn, ack(base.Type, false, protocol.ErrRateLimit, "slow down"))
				continue
			}
			writeJSON(conn, s.dispatch(base.Type, msg))
		}

		s.log.Printf("session %s disconnected", sessionID)
	}
}

func (s *Server) handshake(conn *websocket.Conn) string {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return ""
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return ""
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return ""
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return ""
	}

	sessionID := uuid.NewString()

	s.mu.Lock()
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       sessionID,
		WorldParams: protocol.WorldParams{
			Seed:        s.world.Seed(),
			ChunkSize:   world.ChunkSize,
			Height:      world.Height,
			FieldOfView: s.world.FieldOfView(),
			TickRateHz:  s.tickHz,
		},
	}
	s.mu.Unlock()

	if err := writeJSON(conn, welcome); err != nil {
		return ""
	}
	return sessionID
}

func (s *Server) dispatch(typ string, msg []byte) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch typ {
	case protocol.TypePos:
		var m protocol.PosMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return ack(typ, false, protocol.ErrBadRequest, "bad POS")
		}
		s.world.SetPosition(fixed.FromFloat(m.Pos[0]), fixed.FromFloat(m.Pos[1]), fixed.FromFloat(m.Pos[2]))
		return ack(typ, true, "", "")

	case protocol.TypeGetBlock:
		var m protocol.GetBlockMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return ack(typ, false, protocol.ErrBadRequest, "bad GET_BLOCK")
		}
		b := s.world.GetBlock(m.Pos[0], m.Pos[1], m.Pos[2])
		return protocol.BlockMsg{
			Type:            protocol.TypeBlock,
			ProtocolVersion: protocol.Version,
			Pos:             m.Pos,
			Block:           uint16(b),
		}

	case protocol.TypeSetBlock:
		var m protocol.SetBlockMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return ack(typ, false, protocol.ErrBadRequest, "bad SET_BLOCK")
		}
		if m.Pos[1] < 0 || m.Pos[1] >= world.Height*world.ChunkSize {
			return ack(typ, false, protocol.ErrOutOfBounds, "y outside world")
		}
		if m.Notify {
			s.world.ChangeBlock(m.Pos[0], m.Pos[1], m.Pos[2], block.Block(m.Block))
		} else {
			s.world.SetBlock(m.Pos[0], m.Pos[1], m.Pos[2], block.Block(m.Block))
		}
		return ack(typ, true, "", "")

	case protocol.TypePick:
		var m protocol.PickMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return ack(typ, false, protocol.ErrBadRequest, "bad PICK")
		}
		if m.Dir == [3]float64{} {
			return ack(typ, false, protocol.ErrInvalidTarget, "zero direction")
		}
		origin := geom.Vec3{X: m.Origin[0], Y: m.Origin[1], Z: m.Origin[2]}
		dir := geom.Vec3{X: m.Dir[0], Y: m.Dir[1], Z: m.Dir[2]}
		hit, side, ok := s.world.IntersectsRay(origin, dir)
		out := protocol.HitMsg{
			Type:            protocol.TypeHit,
			ProtocolVersion: protocol.Version,
			Hit:             ok,
		}
		if ok {
			out.Pos = [3]float64{hit.X, hit.Y, hit.Z}
			out.Side = side.String()
		}
		return out

	case protocol.TypeSave:
		if s.save == nil {
			return ack(typ, false, protocol.ErrSaveFailed, "saving disabled")
		}
		name, err := s.save(s.world)
		if err != nil {
			s.log.Printf("save failed: %v", err)
			return ack(typ, false, protocol.ErrSaveFailed, err.Error())
		}
		return protocol.SavedMsg{
			Type:            protocol.TypeSaved,
			ProtocolVersion: protocol.Version,
			Name:            name,
		}

	default:
		return ack(typ, false, protocol.ErrUnknownType, "unknown type")
	}
}

func ack(ackFor string, accepted bool, code, message string) protocol.AckMsg {
	return protocol.AckMsg{
		Type:            protocol.TypeAck,
		ProtocolVersion: protocol.Version,
		AckFor:          ackFor,
		Accepted:        accepted,
		Code:            code,
		Message:         message,
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
