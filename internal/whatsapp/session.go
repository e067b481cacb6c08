package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

type State string

const (
	StateDisconnected State = "DISCONNECTED"
	StatePairing      State = "PAIRING"
	StateConnected    State = "CONNECTED"
	StateError        State = "ERROR"
)

// Session is the persisted pairing state for one salon's instance. All
// transitions go through the store; nothing lives in package globals, so
// a process restart picks up where the gateway left off.
type Session struct {
	State       State     `json:"state"`
	QRCode      string    `json:"qr_code,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SessionStore interface {
	Get(ctx context.Context, salonID uuid.UUID) (Session, error)
	Put(ctx context.Context, salonID uuid.UUID, s Session) error
	Clear(ctx context.Context, salonID uuid.UUID) error

	// BindInstance records which salon owns a gateway instance so webhook
	// events, which only carry the instance name, can be routed back.
	BindInstance(ctx context.Context, instance string, salonID uuid.UUID) error
	ResolveInstance(ctx context.Context, instance string) (uuid.UUID, error)
}

// ErrUnknownInstance is returned when a webhook names an instance no
// salon ever connected.
var ErrUnknownInstance = fmt.Errorf("whatsapp: unknown instance")

// RedisSessionStore keys sessions as whatsapp:session:<salonID>.
type RedisSessionStore struct {
	rdb *redis.Client
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

func sessionKey(salonID uuid.UUID) string {
	return fmt.Sprintf("whatsapp:session:%s", salonID)
}

// Get returns a DISCONNECTED session when none was ever stored.
func (s *RedisSessionStore) Get(ctx context.Context, salonID uuid.UUID) (Session, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(salonID)).Result()
	if err == redis.Nil {
		return Session{State: StateDisconnected}, nil
	}
	if err != nil {
		return Session{}, err
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, salonID uuid.UUID, sess Session) error {
	sess.UpdatedAt = time.Now()
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(salonID), raw, 0).Err()
}

func (s *RedisSessionStore) Clear(ctx context.Context, salonID uuid.UUID) error {
	return s.rdb.Del(ctx, sessionKey(salonID)).Err()
}

func instanceKey(instance string) string {
	return fmt.Sprintf("whatsapp:instance:%s", instance)
}

func (s *RedisSessionStore) BindInstance(ctx context.Context, instance string, salonID uuid.UUID) error {
	return s.rdb.Set(ctx, instanceKey(instance), salonID.String(), 0).Err()
}

func (s *RedisSessionStore) ResolveInstance(ctx context.Context, instance string) (uuid.UUID, error) {
	raw, err := s.rdb.Get(ctx, instanceKey(instance)).Result()
	if err == redis.Nil {
		return uuid.Nil, ErrUnknownInstance
	}
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(raw)
}
