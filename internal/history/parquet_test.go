package history

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportParquet(t *testing.T) {
	// Arrange
	store := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, NewEntry(sampleResult("curb-65", 1, baseTime), "p1", "")))
	require.NoError(t, store.Save(ctx, NewEntry(sampleResult("gcs", 15, baseTime.Add(time.Minute)), "", "")))

	// Act
	var buf bytes.Buffer
	n, err := ExportParquet(ctx, store, Filter{}, &buf)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 2, n)
	f, err := parquet.OpenFile(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	reader := parquet.NewGenericReader[ParquetRow](f)
	defer reader.Close()

	rows := make([]ParquetRow, 2)
	read, _ := reader.Read(rows)
	require.Equal(t, 2, read)
	assert.Equal(t, "gcs", rows[0].CalculatorID)
	assert.Nil(t, rows[0].PatientID)
	assert.Equal(t, "curb-65", rows[1].CalculatorID)
	require.NotNil(t, rows[1].PatientID)
	assert.Equal(t, "p1", *rows[1].PatientID)
	assert.Equal(t, `{"a":1,"b":0}`, rows[1].InputsJSON)
	assert.Equal(t, baseTime.UnixMicro(), rows[1].CreatedAtMicro)
}
