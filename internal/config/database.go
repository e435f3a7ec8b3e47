package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"
)

// Database holds the sink connection parameters. DSN, when set, wins over
// the discrete fields.
type Database struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port" validate:"omitempty,min=1,max=65535"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
	SSLMode  string `json:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`

	// Table is the destination table name.
	Table string `json:"table" validate:"required"`
}

// ConnectionString renders the driver DSN for kind. For sqlite, Name is the
// database file path.
func (d Database) ConnectionString(kind string) (string, error) {
	if d.DSN != "" {
		return d.DSN, nil
	}
	addr := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	switch kind {
	case "postgres":
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(d.User, d.Password),
			Host:   addr,
			Path:   "/" + d.Name,
		}
		if d.SSLMode != "" {
			u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
		}
		return u.String(), nil
	case "mysql":
		c := mysql.NewConfig()
		c.User = d.User
		c.Passwd = d.Password
		c.Net = "tcp"
		c.Addr = addr
		c.DBName = d.Name
		c.ParseTime = true
		return c.FormatDSN(), nil
	case "mssql":
		u := url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(d.User, d.Password),
			Host:     addr,
			RawQuery: url.Values{"database": {d.Name}}.Encode(),
		}
		return u.String(), nil
	case "sqlite":
		if d.Name == "" {
			return "", fmt.Errorf("sqlite requires db.name (database file path)")
		}
		return d.Name, nil
	default:
		return "", fmt.Errorf("no connection string rule for storage kind %q", kind)
	}
}
