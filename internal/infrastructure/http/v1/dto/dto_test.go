package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantNil bool
		wantErr bool
	}{
		{name: "date only", in: `"2026-03-01"`, want: "2026-03-01"},
		{name: "rfc3339 keeps calendar day", in: `"2026-03-01T22:15:00-04:00"`, want: "2026-03-01"},
		{name: "null", in: `null`, wantNil: true},
		{name: "empty string", in: `""`, wantNil: true},
		{name: "garbage", in: `"03/01/2026"`, wantErr: true},
		{name: "number", in: `20260301`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				D *Date `json:"d"`
			}
			err := json.Unmarshal([]byte(`{"d":`+tt.in+`}`), &body)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, body.D.Ptr())
				return
			}
			got := body.D.Ptr()
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestDate_Marshal(t *testing.T) {
	b, err := json.Marshal(Date{Time: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-01"`, string(b))

	b, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(b))
}

func TestClientRequest_ActiveByDefault(t *testing.T) {
	var req ClientRequest
	require.NoError(t, json.Unmarshal([]byte(`{"clientType":"Individual","firstName":"Ana","phone":"809"}`), &req))
	assert.True(t, req.ToEntity().IsActive)

	inactive := false
	req.IsActive = &inactive
	assert.False(t, req.ToEntity().IsActive)
}

func TestInvoiceRequest_Conversion(t *testing.T) {
	var req InvoiceRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"clientId": "0190f5c8-6a54-7c3e-9a1b-3f2d4e5f6a7b",
		"issueDate": "2026-03-01",
		"requiresFiscalVoucher": true,
		"lines": [{"description":"Mantenimiento","quantity":"1","unitPrice":"2500","taxRate":"18"}]
	}`), &req))

	create := req.ToCreate()
	require.NotNil(t, create.ClientID)
	require.NotNil(t, create.IssueDate)
	assert.Nil(t, create.DueDate)
	assert.True(t, create.RequiresFiscalVoucher)
	require.Len(t, create.Lines, 1)

	update := req.ToUpdate()
	assert.Equal(t, create.ClientID, update.ClientID)
	assert.Equal(t, create.IssueDate, update.IssueDate)
}

func TestQuoteRequest_NewClient(t *testing.T) {
	req := QuoteRequest{}
	assert.Nil(t, req.ToCreate().NewClient)

	req.NewClient = &ClientRequest{FirstName: "Luis", Phone: "809-000"}
	created := req.ToCreate().NewClient
	require.NotNil(t, created)
	assert.Equal(t, "Luis", created.FirstName)
	assert.True(t, created.IsActive)
}
