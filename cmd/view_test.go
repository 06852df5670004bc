package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AlexandreBurel/RawFinder/internal/domain"
	domainmocks "github.com/AlexandreBurel/RawFinder/internal/domain/mocks"
	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

func TestViewCmd_PassesSnapshotPath(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newViewCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.On("View", mock.Anything, mock.MatchedBy(func(args domain.ViewArgs) bool {
		return args.Snapshot == m.Path("reports/RawFinder-lab-20240102-030405.yaml")
	})).Return(nil)

	cmd.SetArgs([]string{"view", "reports/RawFinder-lab-20240102-030405.yaml"})
	err := cmd.Execute()
	require.NoError(t, err)
}

func TestViewCmd_RequiresSnapshot(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newViewCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	cmd.SetArgs([]string{"view"})
	err := cmd.Execute()
	require.Error(t, err)
}

func TestViewCmd_PropagatesWorkflowError(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newViewCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.On("View", mock.Anything, mock.Anything).Return(errors.New("no such snapshot"))

	cmd.SetArgs([]string{"view", "missing.yaml"})
	err := cmd.Execute()
	require.ErrorContains(t, err, "no such snapshot")
}
