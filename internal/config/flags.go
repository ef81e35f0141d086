package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses configuration flags from args.
//
// Flags:
//
//	-a listen address in format [host]:[port]
//	-server remote server base URL used by the client
//	-d database DSN
//	-local client SQLite file path
//	-c/-config json file path with configs
//	-access-key / -refresh-key / -verify-key token signing keys
//	-token-issuer token issuer name
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-debounce autosave debounce (e.g., "800ms")
//	-client-url base of links sent by e-mail
func parseFlags(args []string) (*StructuredConfig, error) {
	var listenAddress NetAddress
	var serverURL string
	var databaseDSN string
	var localDSN string
	var jsonConfigPath string
	var accessKey, refreshKey, verifyKey string
	var tokenIssuer string
	var requestTimeout time.Duration
	var debounce time.Duration
	var clientURL string

	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.Var(&listenAddress, "a", "Net address host:port")
	fs.StringVar(&serverURL, "server", "", "Weight tracker server base URL")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&localDSN, "local", "", "Local cache file path")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&accessKey, "access-key", "", "Access token signing key")
	fs.StringVar(&refreshKey, "refresh-key", "", "Refresh token signing key")
	fs.StringVar(&verifyKey, "verify-key", "", "Verification token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&debounce, "debounce", 0, "Autosave debounce (e.g., 800ms)")
	fs.StringVar(&clientURL, "client-url", "", "Base URL of e-mailed links")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			AccessTokenSignKey:  accessKey,
			RefreshTokenSignKey: refreshKey,
			VerifyTokenSignKey:  verifyKey,
			TokenIssuer:         tokenIssuer,
			ClientURL:           clientURL,
		},
		Storage: Storage{
			DB:    DB{DSN: databaseDSN},
			Local: Local{DSN: localDSN},
		},
		Server: Server{
			HTTPAddress:    listenAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    serverURL,
			RequestTimeout: requestTimeout,
		},
		Client:       Client{AutosaveDebounce: debounce},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// It returns an empty string when neither Host nor Port is set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are
// invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "localhost" && host != "" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
