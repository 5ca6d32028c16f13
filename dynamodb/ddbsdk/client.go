package ddbsdk

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/acksell/statustable/dynamodb/singletable"
	"github.com/acksell/statustable/dynamodb/table"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Client is a singletable.Store on Amazon DynamoDB. It never retries, the
// SDK retryer is expected to be disabled (see NewFromConfig).
type Client struct {
	awsddb AWSDynamoClientV2
	table  table.TableDefinition
	gsi    table.GSIDefinition
	opts   options
}

var _ singletable.Store = (*Client)(nil)

type options struct {
	log *slog.Logger
	// default to consistent reads on the base table, GSIs only support
	// eventually consistent reads.
	eventuallyConsistent bool
	pageSize             int32
	tableWaitTimeout     time.Duration
}

const (
	defaultPageSize         = 100
	defaultTableWaitTimeout = 2 * time.Minute
)

type Option func(*options)

// WithLogger sets the logger. Logging is disabled by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithEventuallyConsistentReads turns off consistent reads on the base table.
func WithEventuallyConsistentReads() Option {
	return func(o *options) {
		o.eventuallyConsistent = true
	}
}

// WithPageSize sets the Limit of each Query request.
func WithPageSize(n int32) Option {
	return func(o *options) {
		o.pageSize = n
	}
}

// WithTableWaitTimeout bounds how long CreateTable waits for the table to become active.
func WithTableWaitTimeout(d time.Duration) Option {
	return func(o *options) {
		o.tableWaitTimeout = d
	}
}

// New returns a client storing items in the table described by def.
// def must have a secondary index.
func New(awsddb AWSDynamoClientV2, def table.TableDefinition, opts ...Option) (*Client, error) {
	gsi, ok := def.GSI()
	if !ok {
		return nil, fmt.Errorf("table %s: a secondary index is required", def.Name)
	}
	o := options{
		pageSize:         defaultPageSize,
		tableWaitTimeout: defaultTableWaitTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.New(slog.DiscardHandler)
	}
	o.log = o.log.With("table", def.Name)
	return &Client{
		awsddb: awsddb,
		table:  def,
		gsi:    gsi,
		opts:   o,
	}, nil
}

// NewFromConfig builds a DynamoDB API client from cfg with retries disabled.
// A non-empty endpoint overrides the service endpoint, e.g. for DynamoDB Local.
func NewFromConfig(cfg aws.Config, endpoint string) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		o.Retryer = aws.NopRetryer{}
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

// LoadConfig loads the AWS configuration for region. When an endpoint is
// given the target is assumed to be DynamoDB Local and static dummy
// credentials are used.
func LoadConfig(ctx context.Context, region, endpoint string) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
		config.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	}
	if endpoint != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

func (c *Client) tableName() *string {
	return &c.table.Name
}
