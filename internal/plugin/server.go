package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"macplugins/internal/macros"
)

// ErrUnknownMessage marks a request whose kind the server does not handle.
var ErrUnknownMessage = errors.New("unknown plugin message")

func unknownMessage(envelope map[string]json.RawMessage) error {
	kinds := make([]string, 0, len(envelope))
	for k := range envelope {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return fmt.Errorf("%w: %s", ErrUnknownMessage, strings.Join(kinds, ","))
}

// Server отвечает хосту на запросы capability и раскрытия макросов.
type Server struct {
	Registry macros.Registry
	Logger   zerolog.Logger
}

func NewServer(reg macros.Registry, logger zerolog.Logger) *Server {
	return &Server{Registry: reg, Logger: logger}
}

type frame struct {
	data []byte
	err  error
}

// Serve reads framed requests from r and writes one framed response per
// request to w. It returns nil on a clean end of input and ctx.Err() when the
// context is cancelled. Unknown or malformed requests are logged and answered
// with an expandMacroResult carrying a PLG7004 error.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	frames := make(chan frame)
	go func() {
		defer close(frames)
		for {
			data, err := ReadMessage(r)
			select {
			case frames <- frame{data: data, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	handled := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-frames:
			if !ok {
				return nil
			}
			if f.err != nil {
				if errors.Is(f.err, io.EOF) {
					s.Logger.Debug().Int("handled", handled).Msg("plugin input closed")
					return nil
				}
				return fmt.Errorf("plugin: read message: %w", f.err)
			}
			resp, err := s.Handle(f.data)
			if err != nil {
				// хост ждёт ответ на каждый запрос, молчать нельзя
				s.Logger.Warn().Err(err).Int("bytes", len(f.data)).Msg("unsupported plugin message")
				resp = messageError(err)
			}
			payload, err := json.Marshal(resp)
			if err != nil {
				return fmt.Errorf("plugin: encode response: %w", err)
			}
			if err := WriteMessage(w, payload); err != nil {
				return fmt.Errorf("plugin: write response: %w", err)
			}
			handled++
		}
	}
}

// Handle decodes one request payload and builds its response.
func (s *Server) Handle(data []byte) (PluginMessage, error) {
	msg, err := DecodeHostMessage(data)
	if err != nil {
		return PluginMessage{}, err
	}
	return s.HandleMessage(msg)
}

func (s *Server) HandleMessage(msg HostMessage) (PluginMessage, error) {
	switch {
	case msg.GetCapability != nil:
		return PluginMessage{GetCapabilityResult: &CapabilityResult{
			Capability: Capability{ProtocolVersion: ProtocolVersion},
		}}, nil
	case msg.ExpandFreestandingMacro != nil:
		res := s.expandFreestanding(msg.ExpandFreestandingMacro)
		s.logExpansion(msg.ExpandFreestandingMacro.Macro, msg.ExpandFreestandingMacro.Discriminator, res)
		return PluginMessage{ExpandMacroResult: &res}, nil
	case msg.ExpandAttachedMacro != nil:
		res := s.expandAttached(msg.ExpandAttachedMacro)
		s.logExpansion(msg.ExpandAttachedMacro.Macro, msg.ExpandAttachedMacro.Discriminator, res)
		return PluginMessage{ExpandMacroResult: &res}, nil
	}
	return PluginMessage{}, ErrUnknownMessage
}

func (s *Server) logExpansion(ref MacroRef, discriminator string, res ExpandMacroResult) {
	s.Logger.Debug().
		Str("macro", ref.Name).
		Str("type", ref.TypeName).
		Str("discriminator", discriminator).
		Bool("expanded", res.ExpandedSource != nil).
		Int("diagnostics", len(res.Diagnostics)).
		Msg("expand request")
}
