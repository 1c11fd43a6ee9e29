package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gtp/internal/domain"
)

type memoryStorage struct {
	output *domain.TestResultsOutput
}

func (m *memoryStorage) Save(results []domain.TestResult, failures []domain.TestFailure, duration time.Duration, workers int) (*domain.TestResultsOutput, error) {
	m.output = &domain.TestResultsOutput{Meta: domain.TestResultsMeta{RunID: "saved"}, Details: failures}
	return m.output, nil
}

func (m *memoryStorage) Load() (*domain.TestResultsOutput, error) {
	if m.output == nil {
		return nil, errors.New("read results file: no such file")
	}
	return m.output, nil
}

func (m *memoryStorage) SaveOutput(output *domain.TestResultsOutput) error {
	m.output = output
	return nil
}

type recordingExporter struct {
	exported []*domain.TestResultsOutput
	err      error
}

func (r *recordingExporter) Export(ctx context.Context, output *domain.TestResultsOutput) error {
	r.exported = append(r.exported, output)
	return r.err
}

func TestExportCommand_Execute(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	t.Run("exports the last run", func(t *testing.T) {
		st := &memoryStorage{output: &domain.TestResultsOutput{Meta: domain.TestResultsMeta{RunID: "run-1"}}}
		exporter := &recordingExporter{}

		require.NoError(t, NewExportCommand(st, exporter).Execute(cmd, nil))
		require.Len(t, exporter.exported, 1)
		assert.Equal(t, "run-1", exporter.exported[0].Meta.RunID)
	})

	t.Run("without a stored run", func(t *testing.T) {
		exporter := &recordingExporter{}

		assert.Error(t, NewExportCommand(&memoryStorage{}, exporter).Execute(cmd, nil))
		assert.Empty(t, exporter.exported)
	})

	t.Run("exporter error", func(t *testing.T) {
		st := &memoryStorage{output: &domain.TestResultsOutput{}}
		exporter := &recordingExporter{err: errors.New("failed to ping database server")}

		assert.ErrorContains(t, NewExportCommand(st, exporter).Execute(cmd, nil), "ping")
	})
}

type recordingViewer struct {
	viewed *domain.TestResultsOutput
}

func (v *recordingViewer) View(results *domain.TestResultsOutput) error {
	v.viewed = results
	return nil
}

func TestFaillsCommand_Execute(t *testing.T) {
	st := &memoryStorage{output: &domain.TestResultsOutput{Details: []domain.TestFailure{{TestName: "A.B"}}}}
	viewer := &recordingViewer{}

	require.NoError(t, NewFaillsCommand(st, viewer).Execute(&cobra.Command{}, nil))
	assert.Equal(t, st.output, viewer.viewed)

	assert.Error(t, NewFaillsCommand(&memoryStorage{}, viewer).Execute(&cobra.Command{}, nil))
}
