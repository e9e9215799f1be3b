package r2ctl

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// ConnectionKey identifies one client configuration. Region "" means the
// service routes requests without a client-specified region.
type ConnectionKey struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
}

// NewConnectionKey builds a key, normalizing RegionAuto to "".
func NewConnectionKey(endpoint, accessKey, secretKey string, region Region) ConnectionKey {
	return ConnectionKey{
		Endpoint:  strings.TrimSuffix(endpoint, "/"),
		AccessKey: accessKey,
		SecretKey: secretKey,
		Region:    region.Resolve(),
	}
}

func (k ConnectionKey) normalized() ConnectionKey {
	k.Region = Region(k.Region).Resolve()
	return k
}

// String renders the key with the secret masked.
func (k ConnectionKey) String() string {
	region := k.Region
	if region == "" {
		region = string(RegionAuto)
	}
	return k.Endpoint + " (" + MaskSecret(k.AccessKey) + ", " + region + ")"
}

// LogValue keeps secret material out of log records.
func (k ConnectionKey) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("endpoint", k.Endpoint),
		slog.String("access_key", MaskSecret(k.AccessKey)),
		slog.String("secret_key", MaskSecret(k.SecretKey)),
		slog.String("region", k.Region),
	)
}

// ClientFactory constructs a storage client for a key.
type ClientFactory func(ctx context.Context, key ConnectionKey) (S3API, error)

// ClientCache hands out one shared S3API per ConnectionKey. Reads of an
// existing entry take no lock; construction on a miss is serialized so a
// key is never built twice.
type ClientCache struct {
	factory ClientFactory
	logger  *slog.Logger

	clients sync.Map // ConnectionKey -> S3API
	mu      sync.Mutex
}

// CacheOption configures a ClientCache.
type CacheOption func(*ClientCache)

// WithCacheLogger sets the logger used for cache events.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *ClientCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClientCache returns an empty cache that builds clients with factory.
func NewClientCache(factory ClientFactory, opts ...CacheOption) *ClientCache {
	c := &ClientCache{
		factory: factory,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the client for key, constructing it on first use.
// Factory errors are returned as-is.
func (c *ClientCache) Get(ctx context.Context, key ConnectionKey) (S3API, error) {
	key = key.normalized()

	if key.Region == "" {
		c.logger.Warn("region set to auto, routing requests automatically")
	} else {
		c.logger.Info("using region", "region", key.Region)
	}

	if client, ok := c.clients.Load(key); ok {
		c.logger.Info("reusing storage client", "key", key)
		return client.(S3API), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients.Load(key); ok {
		c.logger.Info("reusing storage client", "key", key)
		return client.(S3API), nil
	}

	client, err := c.factory(ctx, key)
	if err != nil {
		return nil, err
	}
	c.clients.Store(key, client)
	c.logger.Info("created storage client", "key", key)

	return client, nil
}

// Len returns the number of cached clients.
func (c *ClientCache) Len() int {
	n := 0
	c.clients.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Reset drops every cached client.
func (c *ClientCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clients.Clear()
}
