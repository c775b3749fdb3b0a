package quality

import (
	"github.com/jsphweid/voicedex/model"
)

type ImitationOptions struct {
	// number of consecutive intervals that must match
	WindowSize  int
	MaxLagBeats int
}

func DefaultImitationOptions() ImitationOptions {
	return ImitationOptions{WindowSize: 4, MaxLagBeats: 8}
}

type ImitationMatch struct {
	Leader        int `json:"leader"`
	Follower      int `json:"follower"`
	LeaderTick    int `json:"leader_tick"`
	FollowerTick  int `json:"follower_tick"`
	LagTicks      int `json:"lag_ticks"`
	Transposition int `json:"transposition"`
	Length        int `json:"length"`
}

// Imitation finds melodic fragments in one voice that reappear, possibly
// transposed, in another voice shortly afterwards. A leader window that
// matched is consumed so overlapping windows do not report the same entry
// twice.
func Imitation(res model.SeparationResult, opts ImitationOptions) []ImitationMatch {
	if opts.WindowSize < 1 {
		opts.WindowSize = DefaultImitationOptions().WindowSize
	}
	if opts.MaxLagBeats < 1 {
		opts.MaxLagBeats = DefaultImitationOptions().MaxLagBeats
	}
	voices := sortedVoices(res)
	maxLag := opts.MaxLagBeats * ticksPerBeat(res)
	size := opts.WindowSize

	matches := []ImitationMatch{}
	for l, leader := range voices {
		for f, follower := range voices {
			if l == f {
				continue
			}
			for i := 0; i+size < len(leader); {
				if isRepeatedNote(leader[i : i+size+1]) {
					i++
					continue
				}
				j := findWindow(leader[i:i+size+1], follower, maxLag)
				if j < 0 {
					i++
					continue
				}
				matches = append(matches, ImitationMatch{
					Leader:        l,
					Follower:      f,
					LeaderTick:    leader[i].StartTick,
					FollowerTick:  follower[j].StartTick,
					LagTicks:      follower[j].StartTick - leader[i].StartTick,
					Transposition: follower[j].Pitch - leader[i].Pitch,
					Length:        size + 1,
				})
				i += size
			}
		}
	}
	return matches
}

func isRepeatedNote(window []model.Note) bool {
	for i := 1; i < len(window); i++ {
		if window[i].Pitch != window[0].Pitch {
			return false
		}
	}
	return true
}

// findWindow returns the index of the first follower note that starts a run
// with the same intervals as window, entering strictly after the window and
// no more than maxLag ticks later.
func findWindow(window, follower []model.Note, maxLag int) int {
	start := window[0].StartTick
	for j := 0; j+len(window) <= len(follower); j++ {
		lag := follower[j].StartTick - start
		if lag <= 0 {
			continue
		}
		if lag > maxLag {
			break
		}
		if sameIntervals(window, follower[j:j+len(window)]) {
			return j
		}
	}
	return -1
}

func sameIntervals(a, b []model.Note) bool {
	for i := 1; i < len(a); i++ {
		if a[i].Pitch-a[i-1].Pitch != b[i].Pitch-b[i-1].Pitch {
			return false
		}
	}
	return true
}
