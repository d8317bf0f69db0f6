package executor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/iulianpascalau/aa-samples/services/trainer/common"
	"github.com/iulianpascalau/aa-samples/services/trainer/testsCommon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleParams = common.RunParameters{
	DatasetName:       "sample_data",
	IntervalInMinutes: 5,
	Weeks:             4,
}

func createMockArgs() ArgsPapermillExecutor {
	return ArgsPapermillExecutor{
		Executable: "papermill",
		Runner:     &testsCommon.CommandRunnerStub{},
	}
}

func TestNewPapermillExecutor(t *testing.T) {
	t.Parallel()

	t.Run("empty executable should error", func(t *testing.T) {
		args := createMockArgs()
		args.Executable = ""

		executor, err := NewPapermillExecutor(args)
		assert.Nil(t, executor)
		assert.True(t, executor.IsInterfaceNil())
		assert.Equal(t, errEmptyExecutable, err)
	})
	t.Run("nil runner should error", func(t *testing.T) {
		args := createMockArgs()
		args.Runner = nil

		executor, err := NewPapermillExecutor(args)
		assert.Nil(t, executor)
		assert.Equal(t, errNilCommandRunner, err)
	})
	t.Run("should work", func(t *testing.T) {
		executor, err := NewPapermillExecutor(createMockArgs())
		assert.NotNil(t, executor)
		assert.False(t, executor.IsInterfaceNil())
		assert.Nil(t, err)
	})
}

func TestPapermillExecutor_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should pass the named parameters", func(t *testing.T) {
		t.Parallel()

		numCalls := 0
		args := createMockArgs()
		args.Runner = &testsCommon.CommandRunnerStub{
			RunHandler: func(ctx context.Context, name string, cmdArgs ...string) ([]byte, error) {
				numCalls++
				assert.Equal(t, "papermill", name)
				expectedArgs := []string{
					"stl.ipynb",
					"out/stl-sample_data.ipynb",
					"-p", "dataset_name", "sample_data",
					"-p", "interval", "5",
					"-p", "weeks", "4",
				}
				assert.Equal(t, expectedArgs, cmdArgs)

				_, hasDeadline := ctx.Deadline()
				assert.False(t, hasDeadline)

				return []byte("Executing: 100%"), nil
			},
		}
		executor, _ := NewPapermillExecutor(args)

		err := executor.Execute(context.Background(), "stl.ipynb", "out/stl-sample_data.ipynb", sampleParams)
		assert.Nil(t, err)
		assert.Equal(t, 1, numCalls)
	})
	t.Run("timeout should bound the run", func(t *testing.T) {
		t.Parallel()

		args := createMockArgs()
		args.Timeout = time.Minute
		args.Runner = &testsCommon.CommandRunnerStub{
			RunHandler: func(ctx context.Context, name string, cmdArgs ...string) ([]byte, error) {
				deadline, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline)
				assert.True(t, time.Until(deadline) <= time.Minute)

				return nil, nil
			},
		}
		executor, _ := NewPapermillExecutor(args)

		err := executor.Execute(context.Background(), "in.ipynb", "out.ipynb", sampleParams)
		assert.Nil(t, err)
	})
	t.Run("engine failure should propagate with the output tail", func(t *testing.T) {
		t.Parallel()

		longOutput := strings.Repeat("x", 2*maxOutputTail) + "PapermillExecutionError: cell 3 raised"
		args := createMockArgs()
		args.Runner = &testsCommon.CommandRunnerStub{
			RunHandler: func(ctx context.Context, name string, cmdArgs ...string) ([]byte, error) {
				return []byte(longOutput), errors.New("exit status 1")
			},
		}
		executor, _ := NewPapermillExecutor(args)

		err := executor.Execute(context.Background(), "in.ipynb", "out.ipynb", sampleParams)
		require.NotNil(t, err)
		assert.True(t, errors.Is(err, ErrNotebookExecution))
		assert.Contains(t, err.Error(), "sample_data")
		assert.Contains(t, err.Error(), "exit status 1")
		assert.Contains(t, err.Error(), "PapermillExecutionError: cell 3 raised")
		assert.Less(t, len(err.Error()), len(longOutput))
	})
}

func TestPapermillExecutor_ExecuteWithOSRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on this platform")
	}

	workingDir := t.TempDir()
	script := filepath.Join(workingDir, "fake-papermill.sh")
	contents := "#!/bin/sh\nif [ \"$5\" = \"broken\" ]; then echo \"engine failure\"; exit 2; fi\necho \"$@\" > \"$2\"\n"
	require.Nil(t, os.WriteFile(script, []byte(contents), 0755))

	executor, err := NewPapermillExecutor(ArgsPapermillExecutor{
		Executable: script,
		Timeout:    time.Second * 10,
		Runner:     NewOSCommandRunner(),
	})
	require.Nil(t, err)

	t.Run("should write the output notebook", func(t *testing.T) {
		outputNotebook := filepath.Join(workingDir, "stl-sample_data.ipynb")
		err = executor.Execute(context.Background(), "stl.ipynb", outputNotebook, sampleParams)
		require.Nil(t, err)

		written, errRead := os.ReadFile(outputNotebook)
		require.Nil(t, errRead)
		assert.Contains(t, string(written), "-p dataset_name sample_data -p interval 5 -p weeks 4")
	})
	t.Run("engine exit code should error", func(t *testing.T) {
		params := sampleParams
		params.DatasetName = "broken"

		err = executor.Execute(context.Background(), "stl.ipynb", filepath.Join(workingDir, "broken.ipynb"), params)
		require.NotNil(t, err)
		assert.True(t, errors.Is(err, ErrNotebookExecution))
		assert.Contains(t, err.Error(), "engine failure")
	})
}
