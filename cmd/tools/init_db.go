package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/OpenWRLD/mixer/internal"
)

type initDBOptions struct {
	host       string
	port       int
	database   string
	user       string
	password   string
	sslMode    string
	modelTable string
	modelPath  string
}

func runInitDB(args []string) error {
	flags := flag.NewFlagSet("init-db", flag.ContinueOnError)
	flags.SetOutput(os.Stdout)
	flags.Usage = func() {
		fmt.Println("Usage: mixer-tools init-db [options]")
		fmt.Println("")
		fmt.Println("Options:")
		flags.PrintDefaults()
	}

	opts := initDBOptions{}
	flags.StringVar(&opts.host, "db-host", getenvDefault("DB_HOST", "localhost"), "database host")
	flags.IntVar(&opts.port, "db-port", getenvDefaultInt("DB_PORT", 5432), "database port")
	flags.StringVar(&opts.database, "db-name", getenvDefault("DB_NAME", "mixer"), "database name")
	flags.StringVar(&opts.user, "db-user", getenvDefault("DB_USER", "postgres"), "database user")
	flags.StringVar(&opts.password, "db-password", getenvDefault("DB_PASSWORD", "postgres"), "database password")
	flags.StringVar(&opts.sslMode, "db-ssl-mode", getenvDefault("DB_SSL_MODE", "disable"), "database sslmode")
	flags.StringVar(&opts.modelTable, "model-table", getenvDefault("MODEL_TABLE", "object_model"), "object-model table name")
	flags.StringVar(&opts.modelPath, "model", "", "object-model JSON file to seed the table from (optional)")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	return initDatabase(opts)
}

func initDatabase(opts initDBOptions) error {
	ctx := context.Background()

	connString := buildConnString(opts)
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return fmt.Errorf("create connection pool: %w", err)
	}
	defer pool.Close()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if err := withTx(ctx, conn.Conn(), func(tx pgx.Tx) error {
		if err := ensureModelTable(ctx, tx, opts.modelTable); err != nil {
			return err
		}
		if opts.modelPath != "" {
			return seedModelTable(ctx, tx, opts.modelTable, opts.modelPath)
		}
		return nil
	}); err != nil {
		return err
	}

	fmt.Println("Database initialized successfully.")
	return nil
}

func buildConnString(opts initDBOptions) string {
	hostPort := fmt.Sprintf("%s:%d", opts.host, opts.port)

	var userInfo *url.Userinfo
	if opts.password != "" {
		userInfo = url.UserPassword(opts.user, opts.password)
	} else {
		userInfo = url.User(opts.user)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   hostPort,
		Path:   "/" + opts.database,
	}

	q := url.Values{}
	if opts.sslMode != "" {
		q.Set("sslmode", opts.sslMode)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

func ensureModelTable(ctx context.Context, tx pgx.Tx, tableName string) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		type_name  TEXT NOT NULL,
		base_type  TEXT,
		attr_name  TEXT,
		attr_type  TEXT,
		attr_kind  TEXT CHECK (attr_kind IN ('scalar', 'pointer', 'collection')),
		position   INTEGER NOT NULL DEFAULT 0
	)`, quoteIdentifier(tableName))

	if _, err := tx.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure object-model table: %w", err)
	}
	fmt.Printf("Created object-model table: %s\n", tableName)
	return nil
}

// seedModelTable replaces the table contents with the declarations from a
// validated model file. Types without attributes get a single row with NULL
// attribute columns so the loader still sees them.
func seedModelTable(ctx context.Context, tx pgx.Tx, tableName, modelPath string) error {
	data, err := os.ReadFile(modelPath)
	if err != nil {
		return fmt.Errorf("read model file: %w", err)
	}
	doc, err := internal.ParseModelDocument(data)
	if err != nil {
		return err
	}

	table := quoteIdentifier(tableName)
	if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
		return fmt.Errorf("clear object-model table: %w", err)
	}

	insert := fmt.Sprintf(
		"INSERT INTO %s (type_name, base_type, attr_name, attr_type, attr_kind, position) VALUES ($1, $2, $3, $4, $5, $6)",
		table,
	)
	rows := 0
	for _, typeDoc := range doc.Types {
		base := nullable(typeDoc.Base)
		if len(typeDoc.Attributes) == 0 {
			if _, err := tx.Exec(ctx, insert, typeDoc.Name, base, nil, nil, nil, 0); err != nil {
				return fmt.Errorf("insert type %s: %w", typeDoc.Name, err)
			}
			rows++
			continue
		}
		for position, attr := range typeDoc.Attributes {
			if _, err := tx.Exec(ctx, insert, typeDoc.Name, base, attr.Name, attr.Type, attr.Kind, position); err != nil {
				return fmt.Errorf("insert attribute %s.%s: %w", typeDoc.Name, attr.Name, err)
			}
			rows++
		}
	}

	fmt.Printf("Seeded %d rows from %s\n", rows, modelPath)
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func withTx(ctx context.Context, conn *pgx.Conn, fn func(pgx.Tx) error) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func getenvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvDefaultInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
