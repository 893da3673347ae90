package operation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opwait/opwait/internal/operation"
)

func TestStatusString(t *testing.T) {
	status := &operation.Status{Code: 9, Message: "FAILED_PRECONDITION"}
	assert.Equal(t, "OperationError: code=9, message=FAILED_PRECONDITION", status.String())
}

func TestStatusStringNestedDetails(t *testing.T) {
	status := &operation.Status{
		Code:    13,
		Message: "internal error",
		Details: []*operation.Status{
			{Code: 9, Message: "precondition failed"},
			{
				Code:    3,
				Message: "bad argument",
				Details: []*operation.Status{
					{Code: 5, Message: "missing field"},
				},
			},
		},
	}

	assert.Equal(t,
		"OperationError: code=13, message=internal error\n"+
			"OperationError: code=9, message=precondition failed\n"+
			"OperationError: code=3, message=bad argument\n"+
			"OperationError: code=5, message=missing field",
		status.String())
}

func TestFailedError(t *testing.T) {
	var err error = operation.NewFailedError(&operation.Status{Code: 9, Message: "boom"})

	var failed *operation.FailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, 9, failed.Status.Code)
	assert.Contains(t, err.Error(), "code=9, message=boom")
}

func TestTimeoutError(t *testing.T) {
	var err error = &operation.TimeoutError{
		OperationName: "projects/p/locations/l/operations/op1",
		Phase:         "status polling",
	}
	assert.Contains(t, err.Error(), "projects/p/locations/l/operations/op1")
	assert.Contains(t, err.Error(), "taking too long")
}

func TestStateMessagesStrings(t *testing.T) {
	got := operation.StateMessagesStrings([]operation.StateMessage{
		{Severity: "WARNING", Message: "disk nearly full"},
		{Severity: "ERROR", Message: "hook failed"},
	})
	assert.Equal(t, []string{"[WARNING] disk nearly full", "[ERROR] hook failed"}, got)
}

func TestOperationStages(t *testing.T) {
	var op *operation.Operation
	assert.Nil(t, op.Stages())

	op = &operation.Operation{Name: "op"}
	assert.Nil(t, op.Stages())

	op.Metadata = &operation.Metadata{Stages: []operation.StageInfo{{Name: "BUILD"}}}
	require.Len(t, op.Stages(), 1)
	assert.Equal(t, "BUILD", op.Stages()[0].Name)
}
