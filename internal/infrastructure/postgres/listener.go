package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/lanchonete-api/internal/domain/repository"
	"github.com/jhoicas/lanchonete-api/pkg/logger"
)

var allCollections = []string{
	repository.CollectionMenuItems,
	repository.CollectionOrders,
	repository.CollectionStockLog,
	repository.CollectionTransactions,
}

// ChangeNotifier recibe la colección modificada (lo implementa *realtime.Feed).
type ChangeNotifier interface {
	Notify(collections ...string)
}

// Listener escucha el canal de NOTIFY y reenvía cada payload (nombre de colección) al feed.
// Así los cambios hechos por otra instancia o por lanchonetectl también llegan a los suscriptores.
type Listener struct {
	pool     *pgxpool.Pool
	channel  string
	notifier ChangeNotifier
	log      *logger.Logger
	retry    time.Duration
}

func NewListener(pool *pgxpool.Pool, channel string, notifier ChangeNotifier, log *logger.Logger) *Listener {
	return &Listener{pool: pool, channel: channel, notifier: notifier, log: log.Named("pg-listener"), retry: time.Second}
}

// Run bloquea hasta que ctx termina. Si la conexión se pierde, reintenta.
func (l *Listener) Run(ctx context.Context) {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		l.log.Warn().Err(err).Str("channel", l.channel).Msg("listener desconectado, reintentando")
		// todo lo ocurrido durante la desconexión se pierde: forzar recarga
		l.notifier.Notify(allCollections...)
		select {
		case <-ctx.Done():
			return
		case <-time.After(l.retry):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return err
	}
	l.log.Info().Str("channel", l.channel).Msg("escuchando cambios")

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			// Release destruye la conexión si quedó ocupada a mitad de lectura.
			return err
		}
		if n.Payload == "" {
			continue
		}
		l.notifier.Notify(n.Payload)
	}
}
