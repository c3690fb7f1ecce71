package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thidomsilva/testcheckout/internal/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantTxID      string
		wantStatus    string
		wantEventType string
	}{
		{
			name:          "type with nested data and snake_case id",
			body:          `{"type":"transaction.updated","data":{"transaction_id":"t9","status":"authorized"}}`,
			wantTxID:      "t9",
			wantStatus:    "authorized",
			wantEventType: "transaction.updated",
		},
		{
			name:          "eventType with nested data and camelCase id",
			body:          `{"eventType":"transaction.updated","data":{"transactionId":"t1","status":"paid"}}`,
			wantTxID:      "t1",
			wantStatus:    "paid",
			wantEventType: "transaction.updated",
		},
		{
			name:          "eventType inside data takes precedence",
			body:          `{"type":"outer","data":{"eventType":"inner","id":"t2","status":"pending"}}`,
			wantTxID:      "t2",
			wantStatus:    "pending",
			wantEventType: "inner",
		},
		{
			name:          "event key variant with flat fields",
			body:          `{"event":"transaction.updated","transaction_id":"t3","status":"declined"}`,
			wantTxID:      "t3",
			wantStatus:    "declined",
			wantEventType: "transaction.updated",
		},
		{
			name:       "flat body with no event type",
			body:       `{"transactionId":"t4","status":"paid"}`,
			wantTxID:   "t4",
			wantStatus: "paid",
		},
		{
			name:       "id fallback inside data",
			body:       `{"data":{"id":"t5","status":"confirmed"}}`,
			wantTxID:   "t5",
			wantStatus: "confirmed",
		},
		{
			name:       "transactionId preferred over id within the container",
			body:       `{"data":{"transactionId":"t6","id":"ignored","status":"paid"}}`,
			wantTxID:   "t6",
			wantStatus: "paid",
		},
		{
			name:       "transaction id probed at top level when data lacks it",
			body:       `{"transactionId":"t7","data":{"status":"paid"}}`,
			wantTxID:   "t7",
			wantStatus: "paid",
		},
		{
			name:       "status probed at top level when data lacks it",
			body:       `{"status":"paid","data":{"transactionId":"t8"}}`,
			wantTxID:   "t8",
			wantStatus: "paid",
		},
		{
			name:       "numeric transaction id is stringified",
			body:       `{"data":{"id":12345,"status":"paid"}}`,
			wantTxID:   "12345",
			wantStatus: "paid",
		},
		{
			name:       "unknown status is preserved verbatim",
			body:       `{"data":{"transactionId":"t10","status":"in_manual_review"}}`,
			wantTxID:   "t10",
			wantStatus: "in_manual_review",
		},
		{
			name:     "missing status yields empty status",
			body:     `{"data":{"transactionId":"t11"}}`,
			wantTxID: "t11",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := Normalize([]byte(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.wantTxID, ev.TransactionID)
			assert.Equal(t, tc.wantStatus, ev.Status)
			assert.Equal(t, tc.wantEventType, ev.EventType)
			assert.JSONEq(t, tc.body, string(ev.Raw))
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	t.Run("non-json body", func(t *testing.T) {
		_, err := Normalize([]byte("not-json"))
		require.ErrorIs(t, err, domain.ErrMalformedBody)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := Normalize(nil)
		require.ErrorIs(t, err, domain.ErrMalformedBody)
	})

	t.Run("no transaction id anywhere", func(t *testing.T) {
		_, err := Normalize([]byte(`{"eventType":"transaction.updated","data":{"status":"paid"}}`))
		require.ErrorIs(t, err, domain.ErrMissingTransactionID)
	})
}
