package network

import (
	"net/url"

	"github.com/gorilla/websocket"
)

// Transport is the minimal duplex-socket surface the manager needs. It is
// satisfied by *websocket.Conn and by test doubles.
type Transport interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer establishes a Transport to an endpoint.
type Dialer func(endpoint string) (Transport, error)

// DialWebSocket is the production dialer.
func DialWebSocket(endpoint string) (Transport, error) {
	conn, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Endpoint builds the realtime play endpoint for one seat. The identity pair
// is fixed here and reused verbatim for every reconnect attempt, so the
// server can resume the same seat.
func Endpoint(wsBaseURL, gameID, playerID string) (string, error) {
	u, err := url.Parse(wsBaseURL)
	if err != nil {
		return "", err
	}
	u.Path = "/api/v1/play"
	q := url.Values{}
	q.Set("game", gameID)
	q.Set("player", playerID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
