package inventory_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	appinv "github.com/jhoicas/field-inventory/internal/application/inventory"
	"github.com/jhoicas/field-inventory/internal/domain/entity"
)

func TestNotifiers_Reparte(t *testing.T) {
	a, b := &recordingNotifier{}, &recordingNotifier{}
	var buf bytes.Buffer
	logN := appinv.NewLogNotifier(zerolog.New(&buf).Level(zerolog.DebugLevel))

	ns := appinv.Notifiers{a, nil, b, logN}
	ns.InventoryChanged(context.Background(), appinv.ChangeEvent{Action: entity.ActionReject, InventoryIDs: []int64{3}})

	assert.Equal(t, 1, a.count())
	assert.Equal(t, 1, b.count())
	assert.Contains(t, buf.String(), `"action":"Reject"`)
}
