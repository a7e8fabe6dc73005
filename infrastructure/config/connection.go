package config

import (
	"fmt"
	"strings"
)

// ConnectionSettings is the parsed form of a store connection string.
type ConnectionSettings struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// HasStaticCredentials reports whether explicit keys were supplied.
func (s ConnectionSettings) HasStaticCredentials() bool {
	return s.AccessKeyID != "" && s.SecretAccessKey != ""
}

// ParseConnectionString parses "Key=Value;Key=Value" pairs. Keys are case
// insensitive; AccountEndpoint and AccountKey are accepted as aliases for
// Endpoint and SecretAccessKey. An empty string yields zero settings, meaning
// the default credential chain and regional endpoint.
func ParseConnectionString(raw string) (ConnectionSettings, error) {
	var s ConnectionSettings

	for _, segment := range strings.Split(raw, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		key, value, ok := strings.Cut(segment, "=")
		if !ok {
			return ConnectionSettings{}, fmt.Errorf("connection string segment %q is not a key=value pair", segment)
		}
		value = strings.TrimSpace(value)

		switch strings.ToLower(strings.TrimSpace(key)) {
		case "endpoint", "accountendpoint":
			s.Endpoint = value
		case "region":
			s.Region = value
		case "accesskeyid":
			s.AccessKeyID = value
		case "secretaccesskey", "accountkey":
			s.SecretAccessKey = value
		case "sessiontoken":
			s.SessionToken = value
		default:
			return ConnectionSettings{}, fmt.Errorf("unknown connection string key %q", strings.TrimSpace(key))
		}
	}

	if (s.AccessKeyID == "") != (s.SecretAccessKey == "") {
		return ConnectionSettings{}, fmt.Errorf("connection string must set both AccessKeyId and SecretAccessKey")
	}
	return s, nil
}
