package websocketPkg

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"SmartCapture/internal/api/capture"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// IStreamClient drives one capture session stream from the client side.
// SendFrame is synchronous: one frame out, one result back.
type IStreamClient interface {
	Connect() error
	SendFrame(frame capture.FrameRequest) (*capture.FrameResponse, error)
	IsConnected() bool
	Close()
}

type streamClient struct {
	url          string
	token        string
	conn         *websocket.Conn
	mu           sync.Mutex
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewStreamClient builds a client for the given stream URL. The token is
// the session-scoped stream token returned on session creation.
func NewStreamClient(url, token string) IStreamClient {
	return &streamClient{
		url:          url,
		token:        token,
		pingInterval: 30 * time.Second,
		readTimeout:  10 * time.Second,
		writeTimeout: 5 * time.Second,
	}
}

func (c *streamClient) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	log.Printf("Connecting to capture stream at %s", c.url)

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token)

	conn, _, err := dialer.Dial(c.url, header)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			log.Printf("Error sending pong: %v", err)
		}
		return nil
	})

	c.conn = conn

	go c.keepAlive()

	return nil
}

func (c *streamClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn != nil
}

func (c *streamClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *streamClient) keepAlive() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		conn := c.conn

		if conn == nil {
			c.mu.Unlock()
			return
		}

		err := conn.WriteControl(
			websocket.PingMessage,
			[]byte{},
			time.Now().Add(c.writeTimeout),
		)

		if err != nil {
			log.Printf("Ping failed, marking stream connection as dead: %v", err)
			c.conn = nil
			conn.Close()
			c.mu.Unlock()
			return
		}

		c.mu.Unlock()
	}
}

func (c *streamClient) getConnection() (*websocket.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, fmt.Errorf("not connected to capture stream")
	}

	return c.conn, nil
}

func (c *streamClient) SendFrame(frame capture.FrameRequest) (*capture.FrameResponse, error) {
	conn, err := c.getConnection()
	if err != nil {
		if err := c.Connect(); err != nil {
			return nil, fmt.Errorf("cannot connect to capture stream: %w", err)
		}
		conn, err = c.getConnection()
		if err != nil {
			return nil, err
		}
	}

	payload, err := json.Marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("error marshaling frame: %w", err)
	}

	c.mu.Lock()

	conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))

	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.conn = nil
		conn.Close()
		c.mu.Unlock()
		return nil, fmt.Errorf("error sending frame: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(c.readTimeout))

	c.mu.Unlock()

	_, message, err := conn.ReadMessage()
	if err != nil {
		c.mu.Lock()
		c.conn = nil
		conn.Close()
		c.mu.Unlock()
		return nil, fmt.Errorf("error reading frame result: %w", err)
	}

	c.mu.Lock()
	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})
	c.mu.Unlock()

	var raw struct {
		capture.FrameResponse
		Error string `json:"error"`
	}
	if err := json.Unmarshal(message, &raw); err != nil {
		return nil, fmt.Errorf("error unmarshaling frame result: %w", err)
	}

	if raw.Error != "" {
		return nil, fmt.Errorf("stream error: %s", raw.Error)
	}

	return &raw.FrameResponse, nil
}
