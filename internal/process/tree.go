package process

import (
	gopsproc "github.com/shirou/gopsutil/v4/process"
)

// descendants returns every live descendant of pid, children before grandchildren.
// It is collected before the root is killed because orphans are re-parented and
// can no longer be found from the root afterwards.
func descendants(pid int) []*gopsproc.Process {
	root, err := gopsproc.NewProcess(int32(pid))
	if err != nil {
		return nil
	}
	var out []*gopsproc.Process
	queue := []*gopsproc.Process{root}
	seen := map[int32]bool{root.Pid: true}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		children, err := p.Children()
		if err != nil {
			continue
		}
		for _, c := range children {
			if seen[c.Pid] {
				continue
			}
			seen[c.Pid] = true
			out = append(out, c)
			queue = append(queue, c)
		}
	}
	return out
}
