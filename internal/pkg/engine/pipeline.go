// Copyright 2026 Red Hat, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"github.com/coreos/eshell/internal/pkg/cmdtree"
	"github.com/coreos/eshell/system/exec"
)

// runPipeline connects stages with pipes. All pipes are made before any
// stage starts, every stage is started before any is reaped, and the
// interpreter gives up its pipe ends in between so that each reader sees
// end of input once its writer is gone.
func (r *Runner) runPipeline(stages []cmdtree.Element, stdio exec.Stdio) exec.ExitReport {
	pipes := make([]*exec.Pipe, len(stages)-1)
	for i := range pipes {
		p, err := newPipe()
		if err != nil {
			fatalf("%v", err)
		}
		pipes[i] = p
	}

	children := make([]*child, 0, len(stages))
	for i, stage := range stages {
		sio := stdio
		if i > 0 {
			sio.In = pipes[i-1].R.File()
		}
		if i < len(pipes) {
			sio.Out = pipes[i].W.File()
		}
		children = append(children, r.start(stage, sio, i > 0))
	}

	for _, p := range pipes {
		if err := p.Release(); err != nil {
			fatalf("%v", err)
		}
	}

	var last exec.ExitReport
	for _, c := range children {
		last = r.wait(c)
	}
	return last
}
