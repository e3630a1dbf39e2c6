package directory

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"

	"graylogsync/internal/core/domain"
	apperrors "graylogsync/pkg/errors"
	"graylogsync/pkg/tracing"
)

const memberAttribute = "memberUid"

// Config holds the connection and search parameters from the policy file.
type Config struct {
	ServerURI    string
	BindDN       string
	BindPassword string
	SearchBaseDN string
	GroupCN      string
	Attributes   []string
	Timeout      time.Duration
	// InsecureSkipVerify disables certificate checks for ldaps:// URIs.
	InsecureSkipVerify bool
}

// Conn is the subset of *ldap.Conn the client needs.
type Conn interface {
	Bind(username, password string) error
	Search(request *ldap.SearchRequest) (*ldap.SearchResult, error)
	Close() error
}

// DialFunc opens a connection to uri.
type DialFunc func(uri string, cfg Config) (Conn, error)

// Client searches an LDAP subtree for group entries.
type Client struct {
	cfg    Config
	dial   DialFunc
	logger *zap.SugaredLogger
}

// NewClient creates a directory client. dial may be nil to use DialLDAP.
func NewClient(cfg Config, dial DialFunc, logger *zap.SugaredLogger) *Client {
	if dial == nil {
		dial = DialLDAP
	}
	if len(cfg.Attributes) == 0 {
		cfg.Attributes = []string{memberAttribute}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{cfg: cfg, dial: dial, logger: logger}
}

// DialLDAP connects with go-ldap, honouring the configured timeout.
func DialLDAP(uri string, cfg Config) (Conn, error) {
	conn, err := ldap.DialURL(uri,
		ldap.DialWithDialer(&net.Dialer{Timeout: cfg.Timeout}),
		ldap.DialWithTLSConfig(&tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify}),
	)
	if err != nil {
		return nil, err
	}
	conn.SetTimeout(cfg.Timeout)
	return conn, nil
}

// Filter returns the search filter for the configured group pattern.
// The pattern may contain * wildcards, so it is not escaped.
func (c *Client) Filter() string {
	return fmt.Sprintf("(cn=%s)", c.cfg.GroupCN)
}

// SearchGroups binds and returns every entry matching the group filter.
func (c *Client) SearchGroups(ctx context.Context) ([]domain.DirectoryEntry, error) {
	ctx, span := tracing.TraceDirectoryOperation(ctx, "search", c.cfg.SearchBaseDN, c.Filter())
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn, err := c.dial(c.cfg.ServerURI, c.cfg)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, apperrors.NewDirectoryUnavailableError(err, c.cfg.ServerURI)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			c.logger.Debugw("closing directory connection", "error", err)
		}
	}()

	if c.cfg.BindDN != "" || c.cfg.BindPassword != "" {
		if err := conn.Bind(c.cfg.BindDN, c.cfg.BindPassword); err != nil {
			tracing.RecordError(ctx, err)
			return nil, apperrors.NewDirectoryUnavailableError(err, c.cfg.ServerURI).
				WithContext("bind_dn", c.cfg.BindDN)
		}
	}

	request := ldap.NewSearchRequest(
		c.cfg.SearchBaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, 0, false,
		c.Filter(),
		c.cfg.Attributes,
		nil,
	)
	result, err := conn.Search(request)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, apperrors.WrapError(err, apperrors.ErrCodeDirectorySearchFailed, "group search failed").
			WithContext("base_dn", c.cfg.SearchBaseDN).
			WithContext("filter", c.Filter())
	}

	entries := make([]domain.DirectoryEntry, 0, len(result.Entries))
	for _, e := range result.Entries {
		attrs := make(map[string][]string, len(e.Attributes))
		for _, a := range e.Attributes {
			attrs[a.Name] = a.Values
		}
		entries = append(entries, domain.DirectoryEntry{DN: e.DN, Attributes: attrs})
	}
	c.logger.Debugw("directory search finished", "base_dn", c.cfg.SearchBaseDN, "entries", len(entries))
	return entries, nil
}

// FetchGroups converts matching entries into groups named by their first RDN.
func (c *Client) FetchGroups(ctx context.Context) ([]domain.Group, error) {
	entries, err := c.SearchGroups(ctx)
	if err != nil {
		return nil, err
	}
	groups := make([]domain.Group, 0, len(entries))
	for _, e := range entries {
		g, err := GroupFromEntry(e)
		if err != nil {
			return nil, apperrors.WrapError(err, apperrors.ErrCodeDirectorySearchFailed, "unusable group entry").
				WithContext("dn", e.DN)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// GroupFromEntry names the group after the value of the entry's first RDN
// and takes members from memberUid, matched case-insensitively.
func GroupFromEntry(e domain.DirectoryEntry) (domain.Group, error) {
	dn, err := ldap.ParseDN(e.DN)
	if err != nil {
		return domain.Group{}, fmt.Errorf("%w: %v", domain.ErrInvalidDN, err)
	}
	if len(dn.RDNs) == 0 || len(dn.RDNs[0].Attributes) == 0 {
		return domain.Group{}, fmt.Errorf("%w: empty dn", domain.ErrInvalidDN)
	}

	g := domain.Group{DN: e.DN, Name: dn.RDNs[0].Attributes[0].Value}
	for name, values := range e.Attributes {
		if strings.EqualFold(name, memberAttribute) {
			g.Members = append(g.Members, values...)
		}
	}
	return g, nil
}
