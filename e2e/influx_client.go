//go:build integration

package e2e

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// InfluxClient reads back what the planner wrote to InfluxDB.
type InfluxClient struct {
	org    string
	bucket string
	client influxdb2.Client
	query  api.QueryAPI
}

func NewInfluxClient(url, org, bucket, token string) *InfluxClient {
	c := influxdb2.NewClient(url, token)
	return &InfluxClient{org: org, bucket: bucket, client: c, query: c.QueryAPI(org)}
}

// Query runs a Flux query. The caller closes the result.
func (c *InfluxClient) Query(ctx context.Context, flux string) (*api.QueryTableResult, error) {
	return c.query.Query(ctx, flux)
}

// SetupBucket creates the organisation and the bucket when the instance
// was not initialised with them.
func (c *InfluxClient) SetupBucket(ctx context.Context) error {
	orgs := c.client.OrganizationsAPI()
	org, err := orgs.FindOrganizationByName(ctx, c.org)
	if err != nil || org == nil {
		if org, err = orgs.CreateOrganizationWithName(ctx, c.org); err != nil {
			return fmt.Errorf("create org: %w", err)
		}
	}
	buckets := c.client.BucketsAPI()
	if b, err := buckets.FindBucketByName(ctx, c.bucket); err == nil && b != nil {
		return nil
	}
	if _, err := buckets.CreateBucketWithName(ctx, org, c.bucket); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

func (c *InfluxClient) Close() { c.client.Close() }
