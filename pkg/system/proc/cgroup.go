//go:build linux

package proc

import (
	"errors"
	"io"

	"github.com/ja7ad/procview/pkg/system/cgroup"
)

// CgroupInfo combines the cgroup membership of a process with the cgroup
// filesystems visible in its mount namespace.
type CgroupInfo struct {
	Version     cgroup.Version      `json:"version" yaml:"version"`
	Mounts      []string            `json:"mounts" yaml:"mounts"`
	Unified     string              `json:"unified,omitempty" yaml:"unified,omitempty"`
	Memberships []cgroup.Membership `json:"memberships" yaml:"memberships"`
}

// Cgroup decodes <dir>/cgroup and <dir>/mountinfo.
func (r *Reader) Cgroup() (CgroupInfo, error) {
	ms, err := readFile(r.path("cgroup"), func(rd io.Reader) ([]cgroup.Membership, error) {
		ms, err := cgroup.DecodeMembership(rd)
		switch {
		case errors.Is(err, cgroup.ErrMalformed):
			return nil, parseErr("cgroup", "", err)
		case err != nil:
			return nil, ioErr(err)
		}
		return ms, nil
	})
	if err != nil {
		return CgroupInfo{}, err
	}

	type mounts struct {
		v   cgroup.Version
		pts []string
	}
	mi, err := readFile(r.path("mountinfo"), func(rd io.Reader) (mounts, error) {
		v, pts, err := cgroup.DecodeMounts(rd)
		if err != nil {
			return mounts{}, ioErr(err)
		}
		return mounts{v, pts}, nil
	})
	if err != nil {
		return CgroupInfo{}, err
	}

	info := CgroupInfo{Version: mi.v, Mounts: mi.pts, Memberships: ms}
	info.Unified, _ = cgroup.Unified(ms)
	return info, nil
}
