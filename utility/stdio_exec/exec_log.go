package stdio_exec

import (
	"bufio"
	"context"
	"os/exec"
	"sync"

	log "github.com/entn-at/ts-asr/logger"
)

/**
This func will run a long running process, such as a python training program,
and capture the stdout and stderr output. It will log the stdout lines as INFO,
and the stderr lines as WARN, unless a stderr line looks like a crash, in which
case the failure is captured and returned after the process exits.
*/

func RunScriptWithLogging(ctx context.Context, python string, args ...string) *log.Status {
	var newArgs []string
	newArgs = append(newArgs, "-u")
	newArgs = append(newArgs, args...)
	cmd := exec.Command(python, newArgs...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return log.Error(ctx, 500, err, `Unable to open stdout for writing`, cmd.String())
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return log.Error(ctx, 500, err, `Unable to open stderr for writing`, cmd.String())
	}
	err = cmd.Start()
	if err != nil {
		return log.Error(ctx, 500, err, `Unable to execute command`, cmd.String())
	}
	var execErr *log.Status
	var errMutex sync.Mutex
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			log.Info(ctx, "PY:", scanner.Text())
		}
	}()
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			status := log.ExecError(ctx, 500, scanner.Text())
			if status != nil {
				errMutex.Lock()
				execErr = status
				errMutex.Unlock()
			}
		}
	}()
	wg.Wait() // Wait for goroutines to finish reading any remaining output
	err = cmd.Wait()
	if err != nil {
		// Report the captured stderr failure rather than the bare exit code
		if execErr != nil {
			return execErr
		}
		return log.Error(ctx, 500, err, `Error occurred in final wait of cmd`, cmd.String())
	}
	return nil
}
