package apiclient

import (
	"context"

	"github.com/jrsteele09/reload-agent-demo/reload"
)

func (c *Client) User(ctx context.Context, token string) Response {
	return c.Call(ctx, token, Request{Operation: reload.OpUser})
}

func (c *Client) PreviewCharge(ctx context.Context, token string, req reload.PreviewChargeRequest) Response {
	return c.Call(ctx, token, Request{Operation: reload.OpPreviewCharge, Body: req})
}

func (c *Client) ReportUsage(ctx context.Context, token string, report reload.UsageReport) Response {
	return c.Call(ctx, token, Request{Operation: reload.OpReportUsage, Body: report})
}

func (c *Client) UsageReports(ctx context.Context, token string, query reload.UsageReportsQuery) Response {
	return c.Call(ctx, token, Request{Operation: reload.OpUsageReports, Query: query.Values()})
}

func (c *Client) UsageReport(ctx context.Context, token, id string) Response {
	return c.Call(ctx, token, Request{Operation: reload.OpUsageReportByID, ID: id})
}

// IntrospectToken and RevokeToken authenticate with the client credentials
// only, so the token travels in the body and not as X-Access-Token.
func (c *Client) IntrospectToken(ctx context.Context, token string) Response {
	return c.Call(ctx, "", Request{Operation: reload.OpIntrospectToken, Body: reload.TokenRequest{Token: token}})
}

func (c *Client) RevokeToken(ctx context.Context, token string) Response {
	return c.Call(ctx, "", Request{Operation: reload.OpRevokeToken, Body: reload.TokenRequest{Token: token}})
}
