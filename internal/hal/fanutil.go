package hal

import (
	"fmt"
	"path"

	"github.com/rs/zerolog"

	"platformagent/internal/logger"
	"platformagent/internal/sysfs"
)

// FanNode identifies one sysfs leaf of a fan tray in the legacy fan-control
// surface. Numbering starts at 1, matching the original utility.
type FanNode int

const (
	NodeFault FanNode = iota + 1
	NodeDutyCycle
	NodeFrontSpeed
	NodeRearSpeed
	NodePresent

	nodeFirst = NodeFault
	nodeLast  = NodePresent
)

var fanNodeLeaf = map[FanNode]string{
	NodeFault:      "fault",
	NodeDutyCycle:  "duty_cycle_percentage",
	NodeFrontSpeed: "front_speed_rpm",
	NodeRearSpeed:  "rear_speed_rpm",
	NodePresent:    "present",
}

// FanUtil is the legacy per-tray fan-control surface consumed by the fan
// control loop: a fixed (tray, node) -> sysfs path map over the fan CPLD
// plus the shared target-speed marker file.
type FanUtil struct {
	fs      *sysfs.FS
	numFans int
	marker  string
	paths   map[int]map[FanNode]string
	log     zerolog.Logger
}

// NewFanUtil precomputes the node path map for all trays of the profile.
func NewFanUtil(fs *sysfs.FS, profile *Profile) *FanUtil {
	paths := make(map[int]map[FanNode]string, profile.FanTrays)
	for fan := 1; fan <= profile.FanTrays; fan++ {
		nodes := make(map[FanNode]string, len(fanNodeLeaf))
		for node, leaf := range fanNodeLeaf {
			nodes[node] = path.Join(profile.FanUtilBaseDir, fmt.Sprintf("fan%d_%s", fan, leaf))
		}
		paths[fan] = nodes
	}
	return &FanUtil{
		fs:      fs,
		numFans: profile.FanTrays,
		marker:  profile.TargetSpeedMarker,
		paths:   paths,
		log:     logger.WithComponent("fanutil"),
	}
}

// NumFans returns the number of fan trays on the main board.
func (u *FanUtil) NumFans() int { return u.numFans }

// NodePath returns the sysfs path for a (fan, node) pair. Fan numbering is
// 1-based.
func (u *FanUtil) NodePath(fan int, node FanNode) (string, error) {
	if fan < 1 || fan > u.numFans {
		return "", fmt.Errorf("fan number %d out of range [1, %d]", fan, u.numFans)
	}
	if node < nodeFirst || node > nodeLast {
		return "", fmt.Errorf("fan node %d out of range [%d, %d]", node, nodeFirst, nodeLast)
	}
	return u.paths[fan][node], nil
}

// NodeValue reads a (fan, node) pair as an integer.
func (u *FanUtil) NodeValue(fan int, node FanNode) (int, error) {
	nodePath, err := u.NodePath(fan, node)
	if err != nil {
		u.log.Debug().Err(err).Msg("Node read rejected")
		return 0, err
	}
	val, err := u.fs.ReadInt(nodePath)
	if err != nil {
		u.log.Debug().Err(err).Str("path", nodePath).Msg("Node unreadable")
		return 0, err
	}
	return val, nil
}

// SetNodeValue writes an integer to a (fan, node) pair.
func (u *FanUtil) SetNodeValue(fan int, node FanNode, val int) error {
	nodePath, err := u.NodePath(fan, node)
	if err != nil {
		u.log.Debug().Err(err).Msg("Node write rejected")
		return err
	}
	if err := u.fs.WriteInt(nodePath, val); err != nil {
		u.log.Error().Err(err).Str("path", nodePath).Msg("Node write failed")
		return err
	}
	return nil
}

// Fault reports whether the tray's fault bit is raised.
func (u *FanUtil) Fault(fan int) (bool, error) {
	val, err := u.NodeValue(fan, NodeFault)
	if err != nil {
		return false, err
	}
	return val != 0, nil
}

// Present reports whether the tray is plugged in.
func (u *FanUtil) Present(fan int) (bool, error) {
	val, err := u.NodeValue(fan, NodePresent)
	if err != nil {
		return false, err
	}
	return val == 1, nil
}

// FrontSpeedRPM returns the front rotor tachometer reading.
func (u *FanUtil) FrontSpeedRPM(fan int) (int, error) {
	return u.NodeValue(fan, NodeFrontSpeed)
}

// RearSpeedRPM returns the rear rotor tachometer reading.
func (u *FanUtil) RearSpeedRPM(fan int) (int, error) {
	return u.NodeValue(fan, NodeRearSpeed)
}

// DutyCycle returns the commanded duty-cycle percentage. All trays share one
// command, so the first tray's node is authoritative.
func (u *FanUtil) DutyCycle() (int, error) {
	return u.NodeValue(1, NodeDutyCycle)
}

// SetDutyCycle writes the duty-cycle percentage to every tray and then
// mirrors it into the target-speed marker file for the control loop in the
// monitoring container. The first failed write aborts the whole operation.
func (u *FanUtil) SetDutyCycle(percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("duty cycle %d%% out of range", percent)
	}
	for fan := 1; fan <= u.numFans; fan++ {
		if err := u.SetNodeValue(fan, NodeDutyCycle, percent); err != nil {
			return fmt.Errorf("set duty cycle of fan %d: %w", fan, err)
		}
	}
	if u.marker != "" {
		if err := u.fs.WriteInt(u.marker, percent); err != nil {
			return fmt.Errorf("update target speed marker: %w", err)
		}
	}
	u.log.Info().Int("percent", percent).Msg("Fan duty cycle set")
	return nil
}

// Status reports whether the tray is operating properly. A raised fault bit
// means failure; an unreadable fault node is treated as healthy, matching
// the permissive check of the original control loop.
func (u *FanUtil) Status(fan int) (bool, error) {
	if fan < 1 || fan > u.numFans {
		return false, fmt.Errorf("fan number %d out of range [1, %d]", fan, u.numFans)
	}
	fault, err := u.Fault(fan)
	if err != nil {
		return true, nil
	}
	return !fault, nil
}
