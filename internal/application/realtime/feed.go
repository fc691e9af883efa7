// Package realtime publica snapshots completos de cada colección a los suscriptores
// cada vez que el store reporta un cambio.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/lanchonete-api/internal/domain"
	"github.com/jhoicas/lanchonete-api/pkg/logger"
)

// Tipos de mensaje entregados a los suscriptores.
const (
	KindSnapshot = "snapshot"
	KindEvent    = "event"
)

// ErrFeedClosed el hub ya no está corriendo.
var ErrFeedClosed = errors.New("realtime: feed detenido")

// Loader carga el estado completo de un tópico.
type Loader func(ctx context.Context) (any, error)

// Topic snapshot con nombre, recargado cuando cambia alguna de sus colecciones.
// Present convierte el valor cargado a la forma que viaja por WebSocket (opcional).
type Topic struct {
	Name        string
	Collections []string
	Load        Loader
	Present     func(any) any
}

// Message snapshot o evento de un tópico. Data es el valor de dominio; Payload el serializable.
type Message struct {
	Kind    string    `json:"kind"`
	Topic   string    `json:"topic"`
	Type    string    `json:"type,omitempty"`
	Version uint64    `json:"version"`
	Payload any       `json:"data"`
	At      time.Time `json:"at"`
	Data    any       `json:"-"`
}

// Event notificación puntual (ej. order.created) que no reemplaza el snapshot.
type Event struct {
	Topic string
	Type  string
	Data  any
}

type topicState struct {
	Topic
	version uint64
	last    *Message
	subs    map[*Subscription]struct{}
}

// Feed hub de suscripciones. Register antes de Run; Run en su propia goroutine.
type Feed struct {
	log *logger.Logger

	mu           sync.RWMutex
	topics       map[string]*topicState
	byCollection map[string][]string

	pendingMu sync.Mutex
	pending   map[string]struct{}
	wake      chan struct{}

	register   chan *Subscription
	unregister chan *Subscription
	events     chan Event
	done       chan struct{}
	now        func() time.Time
}

// NewFeed construye el hub.
func NewFeed(log *logger.Logger) *Feed {
	return &Feed{
		log:          log.Named("realtime"),
		topics:       make(map[string]*topicState),
		byCollection: make(map[string][]string),
		pending:      make(map[string]struct{}),
		wake:         make(chan struct{}, 1),
		register:     make(chan *Subscription),
		unregister:   make(chan *Subscription),
		events:       make(chan Event, 64),
		done:         make(chan struct{}),
		now:          time.Now,
	}
}

// Register agrega un tópico.
func (f *Feed) Register(t Topic) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics[t.Name] = &topicState{Topic: t, subs: make(map[*Subscription]struct{})}
	for _, c := range t.Collections {
		f.byCollection[c] = append(f.byCollection[c], t.Name)
	}
}

// HasTopic indica si el tópico está registrado.
func (f *Feed) HasTopic(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.topics[name]
	return ok
}

// Notify marca colecciones como modificadas. No bloquea: cambios seguidos se agrupan
// en una sola recarga por tópico.
func (f *Feed) Notify(collections ...string) {
	f.pendingMu.Lock()
	for _, c := range collections {
		f.pending[c] = struct{}{}
	}
	f.pendingMu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
}

// Publish envía un evento a los suscriptores del tópico.
func (f *Feed) Publish(ev Event) error {
	select {
	case <-f.done:
		return ErrFeedClosed
	default:
	}
	select {
	case f.events <- ev:
		return nil
	default:
		return fmt.Errorf("realtime: cola de eventos llena, descartado %s", ev.Type)
	}
}

// Subscribe registra un suscriptor; el snapshot actual llega de inmediato por C.
func (f *Feed) Subscribe(ctx context.Context, topic string) (*Subscription, error) {
	if !f.HasTopic(topic) {
		return nil, fmt.Errorf("%w: tópico %q", domain.ErrNotFound, topic)
	}
	ch := make(chan Message, 1)
	sub := &Subscription{C: ch, ch: ch, topic: topic, feed: f}
	select {
	case f.register <- sub:
		return sub, nil
	case <-f.done:
		return nil, ErrFeedClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run procesa suscripciones y cambios hasta que ctx termina; al salir cierra todos los canales.
func (f *Feed) Run(ctx context.Context) {
	defer f.shutdown()
	for {
		select {
		case <-ctx.Done():
			return

		case sub := <-f.register:
			t := f.topic(sub.topic)
			t.subs[sub] = struct{}{}
			if t.last == nil {
				f.reload(ctx, t)
			}
			if t.last != nil {
				deliver(sub, *t.last)
			}

		case sub := <-f.unregister:
			t := f.topic(sub.topic)
			if _, ok := t.subs[sub]; ok {
				delete(t.subs, sub)
				close(sub.ch)
			}

		case <-f.wake:
			for _, name := range f.dirtyTopics() {
				t := f.topic(name)
				if f.reload(ctx, t) {
					for sub := range t.subs {
						deliver(sub, *t.last)
					}
				}
			}

		case ev := <-f.events:
			t := f.topic(ev.Topic)
			if t == nil {
				continue
			}
			msg := Message{Kind: KindEvent, Topic: ev.Topic, Type: ev.Type, Version: t.version, Payload: ev.Data, Data: ev.Data, At: f.now()}
			for sub := range t.subs {
				deliver(sub, msg)
			}
		}
	}
}

func (f *Feed) topic(name string) *topicState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.topics[name]
}

func (f *Feed) dirtyTopics() []string {
	f.pendingMu.Lock()
	collections := f.pending
	f.pending = make(map[string]struct{})
	f.pendingMu.Unlock()

	f.mu.RLock()
	defer f.mu.RUnlock()
	seen := make(map[string]bool)
	var names []string
	for c := range collections {
		for _, name := range f.byCollection[c] {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// reload recarga el tópico; en error conserva el último snapshot.
func (f *Feed) reload(ctx context.Context, t *topicState) bool {
	data, err := t.Load(ctx)
	if err != nil {
		f.log.Error().Err(err).Str("topic", t.Name).Msg("no se pudo recargar el tópico")
		return false
	}
	payload := data
	if t.Present != nil {
		payload = t.Present(data)
	}
	t.version++
	t.last = &Message{Kind: KindSnapshot, Topic: t.Name, Version: t.version, Payload: payload, Data: data, At: f.now()}
	f.log.Debug().Str("topic", t.Name).Uint64("version", t.version).Int("subscribers", len(t.subs)).Msg("snapshot publicado")
	return true
}

func (f *Feed) shutdown() {
	close(f.done)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.topics {
		for sub := range t.subs {
			close(sub.ch)
		}
		t.subs = make(map[*Subscription]struct{})
	}
}

// deliver reemplaza un mensaje pendiente por el nuevo: el suscriptor lento solo ve el último.
func deliver(sub *Subscription, msg Message) {
	select {
	case sub.ch <- msg:
		return
	default:
	}
	select {
	case <-sub.ch:
	default:
	}
	select {
	case sub.ch <- msg:
	default:
	}
}

// Subscription canal de mensajes de un tópico. C se cierra con Unsubscribe o al detener el feed.
type Subscription struct {
	C     <-chan Message
	ch    chan Message
	topic string
	feed  *Feed
	once  sync.Once
}

// Topic nombre del tópico suscrito.
func (s *Subscription) Topic() string { return s.topic }

// Unsubscribe da de baja al suscriptor y cierra C.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		select {
		case s.feed.unregister <- s:
		case <-s.feed.done:
		}
	})
}
