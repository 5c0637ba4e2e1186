package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Environment keys for the Mongo connection target.
const (
	EnvMongoURI      = "MONGODB_URI"
	EnvMongoUsername = "MONGO_USERNAME"
	EnvMongoPassword = "MONGO_PASSWORD"
	EnvMongoHost     = "MONGO_HOST"
	EnvMongoPort     = "MONGO_PORT"
	EnvMongoAuthDB   = "MONGO_AUTH_DB"
	EnvMongoDatabase = "MONGO_DB"
)

const (
	DefaultMongoHost     = "mongodb"
	DefaultMongoPort     = "27017"
	DefaultMongoAuthDB   = "admin"
	DefaultMongoDatabase = "flask_db"
)

// MongoSettings is the connection target derived from the environment.
type MongoSettings struct {
	URIOverride string
	Username    string
	Password    string
	Host        string
	Port        string
	AuthDB      string
	Database    string
}

// ResolveMongo reads the Mongo settings from an environment snapshot.
// Defaults apply only to keys that are absent; a key set to "" stays empty.
func ResolveMongo(env map[string]string) MongoSettings {
	get := func(k, def string) string {
		if v, ok := env[k]; ok {
			return v
		}
		return def
	}
	return MongoSettings{
		URIOverride: env[EnvMongoURI],
		Username:    get(EnvMongoUsername, ""),
		Password:    get(EnvMongoPassword, ""),
		Host:        get(EnvMongoHost, DefaultMongoHost),
		Port:        get(EnvMongoPort, DefaultMongoPort),
		AuthDB:      get(EnvMongoAuthDB, DefaultMongoAuthDB),
		Database:    get(EnvMongoDatabase, DefaultMongoDatabase),
	}
}

// URI returns the connection string. A non-empty override wins unmodified;
// credentials are embedded only when both username and password are set.
func (m MongoSettings) URI() string {
	if m.URIOverride != "" {
		return m.URIOverride
	}
	if m.Username != "" && m.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/?authSource=%s", m.Username, m.Password, m.Host, m.Port, m.AuthDB)
	}
	return fmt.Sprintf("mongodb://%s:%s/", m.Host, m.Port)
}

// Redacted returns the URI with any password masked, for logs.
func (m MongoSettings) Redacted() string {
	if m.URIOverride != "" {
		u, err := url.Parse(m.URIOverride)
		if err != nil {
			return "<unparseable MONGODB_URI>"
		}
		return u.Redacted()
	}
	if m.Username != "" && m.Password != "" {
		return fmt.Sprintf("mongodb://%s:xxxxx@%s:%s/?authSource=%s", m.Username, m.Host, m.Port, m.AuthDB)
	}
	return m.URI()
}

// EnvSnapshot captures the current process environment as a map.
func EnvSnapshot() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		out[k] = v
	}
	return out
}
