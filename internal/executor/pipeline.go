package executor

import (
	"fmt"
	"os"
	"os/exec"

	"eggshell/internal/ast"
	"eggshell/internal/builtin"
)

// flattenPipe walks a right-recursive Pipe/PipeErr chain into its ordered
// stages plus the kind of each link between consecutive stages (len(kinds)
// == len(stages)-1).
func flattenPipe(root *ast.Node) (stages []*ast.Node, kinds []ast.Kind) {
	cur := root
	for cur.Kind.IsPipe() {
		stages = append(stages, cur.Left)
		kinds = append(kinds, cur.Kind)
		cur = cur.Right
	}
	stages = append(stages, cur)
	return stages, kinds
}

// buildStageCmd constructs (without starting) the command that will run
// stage, and reports whether it is a built-in that should instead run
// inline in the shell process. Only the pipeline's last stage is ever
// inlined: a builtin in any earlier position still gets a private process
// via re-exec, exactly as every non-terminal stage in execPipe's original
// fork loop is forked unconditionally, builtin or not.
func (e *Executor) buildStageCmd(stage *ast.Node, isLast bool) (cmd *exec.Cmd, inlineBuiltin bool, err error) {
	if stage.Kind == ast.Simple && builtin.IsBuiltin(stage.Argv[0]) {
		if isLast {
			return nil, true, nil
		}
		cmd, err = buildReexecCmd(stage)
		return cmd, false, err
	}
	if stage.Kind == ast.Subcmd {
		cmd, err = buildReexecCmd(stage)
		return cmd, false, err
	}
	cmd, err = e.buildExternalCmd(stage)
	return cmd, false, err
}

// execPipe runs every stage of a pipeline rooted at root, wiring each
// consecutive pair together with a real OS pipe, and returns the status of
// the first stage (in left-to-right order) that exited non-zero, or 0 if
// all did — mirroring execPipe in process.c exactly, including which
// stage's status wins when more than one fails.
func (e *Executor) execPipe(root *ast.Node) int {
	stages, kinds := flattenPipe(root)
	n := len(stages)

	cmds := make([]*exec.Cmd, n)
	builtinStatus := make([]int, n)
	isInline := make([]bool, n)

	var prevRead *os.File

	for i, stage := range stages {
		isLast := i == n-1

		cmd, inline, err := e.buildStageCmd(stage, isLast)
		if err != nil {
			fmt.Fprintf(os.Stderr, "eggshell: %s\n", err)
			return 1
		}

		if inline {
			// The original never dup2()s the incoming pipe's read end onto
			// stdin for an inline terminal builtin — it only closes it —
			// so the builtin keeps reading the shell's own stdin. cd,
			// pushd, and popd never read stdin, so this quirk has no
			// observable effect here, but the shape is kept faithfully.
			if prevRead != nil {
				prevRead.Close()
			}
			isInline[i] = true
			builtinStatus[i] = e.runBuiltinRedirected(stage)
			continue
		}

		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr

		var openedFrom *os.File
		switch {
		case prevRead != nil:
			cmd.Stdin = prevRead
		case i == 0 && stage.HasFrom && stage.Kind != ast.Subcmd:
			// A re-exec'd Subcmd stage applies its own From redirection
			// inside the child (see subshell.go's applySubshellRedirect) —
			// opening it again here would truncate/re-read it twice.
			f, ferr := openFrom(stage)
			if ferr != nil {
				fmt.Fprintf(os.Stderr, "eggshell: %s\n", ferr)
				return 1
			}
			cmd.Stdin = f
			openedFrom = f
		}

		var newRead, newWrite *os.File
		var openedTo *os.File
		if !isLast {
			r, w, perr := os.Pipe()
			if perr != nil {
				fmt.Fprintf(os.Stderr, "eggshell: %s\n", perr)
				return 1
			}
			cmd.Stdout = w
			if kinds[i] == ast.PipeErr {
				cmd.Stderr = w
			}
			newRead, newWrite = r, w
		} else if stage.HasTo && stage.Kind != ast.Subcmd {
			// Same reasoning as the From case above, mirrored for the last
			// stage's To redirection: the re-exec'd child opens and dup2s
			// its own To file, so the parent must leave it alone here.
			f, ferr := os.OpenFile(stage.ToFile, openOptions(stage.ToKind), 0666)
			if ferr != nil {
				fmt.Fprintf(os.Stderr, "eggshell: %s\n", ferr)
				return 1
			}
			cmd.Stdout = f
			if stage.ToKind.IsErr() {
				cmd.Stderr = f
			}
			openedTo = f
		}

		if err := cmd.Start(); err != nil {
			status, cerr := statusFromSpawnErr(err)
			e.log.WithError(cerr).Debug("pipeline stage failed to start")
			fmt.Fprintf(os.Stderr, "eggshell: %s\n", err)
			return status
		}
		cmds[i] = cmd

		// The shell's own copies of these fds are no longer needed once
		// the child has them: closing the write end here is what lets the
		// next stage's read ever see EOF.
		if prevRead != nil {
			prevRead.Close()
		}
		if openedFrom != nil {
			openedFrom.Close()
		}
		if openedTo != nil {
			openedTo.Close()
		}
		if newWrite != nil {
			newWrite.Close()
		}
		prevRead = newRead
	}

	ch := ignoreSIGINT()
	for i := range cmds {
		if cmds[i] != nil {
			cmds[i].Wait()
		}
	}
	restoreSIGINT(ch)

	for i := 0; i < n; i++ {
		var status int
		if isInline[i] {
			status = builtinStatus[i]
		} else {
			status = getStatus(cmds[i].ProcessState)
		}
		if status != 0 {
			return status
		}
	}
	return 0
}
