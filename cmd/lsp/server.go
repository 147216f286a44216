package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/funvibe/refactorls/internal/codeaction"
	"github.com/funvibe/refactorls/internal/config"
	"github.com/funvibe/refactorls/internal/snapshot"
)

// Language Server implementation
type LanguageServer struct {
	store    *snapshot.Store
	mu       sync.RWMutex // protects cfg, engine and rootPath
	cfg      *config.Config
	engine   *codeaction.Engine
	logger   *slog.Logger
	writeMu  sync.Mutex
	writer   io.Writer // Output stream for JSON-RPC responses
	rootPath string
	shutdown bool
	exit     func(code int)
}

func NewLanguageServer(writer io.Writer, cfg *config.Config, logger *slog.Logger) *LanguageServer {
	if writer == nil {
		writer = os.Stdout
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = config.Discard()
	}
	return &LanguageServer{
		store:  snapshot.NewStore(),
		cfg:    cfg,
		engine: codeaction.NewEngine(cfg, logger),
		logger: logger,
		writer: writer,
		exit:   os.Exit,
	}
}

// Start serves stdin until it is closed.
func (s *LanguageServer) Start() {
	if err := s.Serve(os.Stdin); err != nil {
		s.logger.Error("server.read", "err", err)
	}
}

// Serve reads Content-Length framed messages from r until EOF.
func (s *LanguageServer) Serve(r io.Reader) error {
	// Use a bufio.Reader instead of Scanner to handle arbitrary buffer sizes and raw reads
	reader := bufio.NewReader(r)

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading header: %w", err)
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue // Skip empty lines between messages or before headers
		}

		if !strings.HasPrefix(line, "Content-Length: ") {
			continue
		}
		contentLength, err := strconv.Atoi(strings.TrimPrefix(line, "Content-Length: "))
		if err != nil {
			s.logger.Warn("server.header", "line", line, "err", err)
			continue
		}

		// Skip any further headers up to the empty separator line
		for {
			sep, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading separator: %w", err)
			}
			if strings.TrimRight(sep, "\r\n") == "" {
				break
			}
		}

		content := make([]byte, contentLength)
		if _, err := io.ReadFull(reader, content); err != nil {
			return fmt.Errorf("reading content: %w", err)
		}

		if err := s.handleMessage(content); err != nil {
			s.logger.Warn("server.message", "err", err)
		}
	}
}

type baseMessage struct {
	Jsonrpc string      `json:"jsonrpc"`
	ID      interface{} `json:"id,omitempty"`
	Method  string      `json:"method"`
}

func (s *LanguageServer) handleMessage(content []byte) error {
	var msg baseMessage
	if err := json.Unmarshal(content, &msg); err != nil {
		return s.sendError(nil, CodeParseError, fmt.Sprintf("failed to unmarshal message: %v", err))
	}
	s.logger.Debug("server.receive", "method", msg.Method, "id", msg.ID)

	// Check if this is a request (has ID) or notification (no ID)
	if msg.ID != nil {
		return s.handleRequest(msg, content)
	}
	return s.handleNotification(msg, content)
}

func (s *LanguageServer) handleRequest(msg baseMessage, content []byte) error {
	if s.isShutdown() && msg.Method != "shutdown" {
		return s.sendError(msg.ID, CodeInvalidRequest, "server is shutting down")
	}

	switch msg.Method {
	case "initialize":
		var params InitializeParams
		if err := json.Unmarshal(content, &RequestMessage{Params: &params}); err != nil {
			return s.sendError(msg.ID, CodeInvalidParams, err.Error())
		}
		return s.handleInitialize(msg.ID, params)

	case "shutdown":
		return s.handleShutdown(msg.ID)

	case "textDocument/codeAction":
		return s.handleCodeAction(msg.ID, content)

	case "codeAction/resolve":
		return s.handleCodeActionResolve(msg.ID, content)

	default:
		return s.sendError(msg.ID, CodeMethodNotFound, fmt.Sprintf("Method not found: %s", msg.Method))
	}
}

func (s *LanguageServer) handleNotification(msg baseMessage, content []byte) error {
	switch msg.Method {
	case "initialized":
		return nil

	case "textDocument/didOpen":
		var params DidOpenTextDocumentParams
		if err := json.Unmarshal(content, &NotificationMessage{Params: &params}); err != nil {
			return err
		}
		return s.handleDidOpen(params)

	case "textDocument/didChange":
		var params DidChangeTextDocumentParams
		if err := json.Unmarshal(content, &NotificationMessage{Params: &params}); err != nil {
			return err
		}
		return s.handleDidChange(params)

	case "textDocument/didClose":
		var params DidCloseTextDocumentParams
		if err := json.Unmarshal(content, &NotificationMessage{Params: &params}); err != nil {
			return err
		}
		return s.handleDidClose(params)

	case "exit":
		code := 1
		if s.isShutdown() {
			code = 0
		}
		s.exit(code)
		return nil

	default:
		// Unknown notification, ignore
		return nil
	}
}

func (s *LanguageServer) isShutdown() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shutdown
}

func (s *LanguageServer) currentEngine() *codeaction.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

func (s *LanguageServer) sendResult(id interface{}, result interface{}) error {
	return s.sendMessage(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: result})
}

func (s *LanguageServer) sendError(id interface{}, code int, message string) error {
	return s.sendMessage(ResponseMessage{
		Jsonrpc: "2.0",
		ID:      id,
		Error:   &Error{Code: code, Message: message},
	})
}

func (s *LanguageServer) sendNotification(notification NotificationMessage) error {
	return s.sendMessage(notification)
}

func (s *LanguageServer) sendMessage(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err = fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n%s", len(data), data)
	return err
}
