// SPDX-License-Identifier: GPL-2.0-or-later

package mdl

import (
	"log/slog"

	"github.com/pkg/errors"

	"goldsrc/format"
	"goldsrc/math"
)

// Animation values are stored per channel as runs of 16 bit cells. A control
// cell holds two bytes, the number of stored samples (valid) and the number
// of frames the run covers (total). It is followed by valid signed samples.
// Frames past the stored samples repeat the last one.

const cellSize = 2

func corrupt(i, n int) error {
	return errors.Wrapf(format.ErrCorruptAnimation, "cell %d of %d", i, n)
}

// control reads cell i as a control cell.
func control(cells []byte, i int) (valid, total int, err error) {
	if i < 0 || (i+1)*cellSize > len(cells) {
		return 0, 0, corrupt(i, len(cells)/cellSize)
	}
	return int(cells[i*cellSize]), int(cells[i*cellSize+1]), nil
}

// sample reads cell i as a signed sample.
func sample(cells []byte, i int) (int16, error) {
	if i < 0 || (i+1)*cellSize > len(cells) {
		return 0, corrupt(i, len(cells)/cellSize)
	}
	return int16(uint16(cells[i*cellSize]) | uint16(cells[i*cellSize+1])<<8), nil
}

// DecodeValue returns the scaled sample of frame in the channel starting at
// the first cell of cells.
func DecodeValue(cells []byte, frame int, scale float32) (float32, error) {
	if frame < 0 {
		return 0, errors.Wrapf(format.ErrCorruptAnimation, "frame %d", frame)
	}
	k, cursor := frame, 0
	for {
		valid, total, err := control(cells, cursor)
		if err != nil {
			return 0, err
		}
		if total > k {
			break
		}
		k -= total
		cursor += valid + 1
	}
	valid, _, _ := control(cells, cursor)
	var s int16
	var err error
	if valid > k {
		s, err = sample(cells, cursor+k+1)
	} else {
		s, err = sample(cells, cursor+valid)
	}
	if err != nil {
		return 0, err
	}
	return float32(s) * scale, nil
}

// Channel holds the values of one bone channel for every frame: the rest
// value plus the decoded animation value.
type Channel struct {
	Index     int // 0-2 position, 3-5 rotation
	Keyframes []float32
}

type BoneAnimation struct {
	Bone     int
	Channels []Channel
}

// Animation is a decoded sequence. Bones and channels without animation
// data are left out; they keep their rest value.
type Animation struct {
	Name       string
	FPS        float32
	FrameCount int
	Looping    bool
	Bones      []BoneAnimation
}

// Animation decodes the first blend of sequence seq.
func (f *File) Animation(seq int) (*Animation, error) {
	return f.AnimationBlend(seq, 0)
}

// AnimationBlend decodes blend b of sequence seq. Only sequences stored in
// the model file itself, group 0, can be decoded.
func (f *File) AnimationBlend(seq, b int) (*Animation, error) {
	seqs, err := f.Sequences()
	if err != nil {
		return nil, err
	}
	if seq < 0 || seq >= len(seqs) {
		return nil, format.BadIndex("sequence", seq, len(seqs))
	}
	bones, err := f.Bones()
	if err != nil {
		return nil, err
	}
	return f.decodeSequence(&seqs[seq], bones, b)
}

func (f *File) decodeSequence(s *Sequence, bones []Bone, b int) (*Animation, error) {
	if s.Group != 0 {
		return nil, errors.Wrapf(format.ErrUnsupported, "sequence %s: animation group %d", s.Name, s.Group)
	}
	if b < 0 || b >= max(s.BlendCount, 1) {
		return nil, format.BadIndex("blend", b, s.BlendCount)
	}
	if s.FrameCount < 0 {
		return nil, errors.Wrapf(format.ErrCorruptAnimation, "sequence %s: %d frames", s.Name, s.FrameCount)
	}
	a := &Animation{
		Name:       s.Name,
		FPS:        s.FPS,
		FrameCount: s.FrameCount,
		Looping:    s.Flags&SeqLooping != 0,
	}
	const tableSize = ChannelSize * 2
	base := s.AnimOffset + b*len(bones)*tableSize
	for i := range bones {
		table := base + i*tableSize
		offsets, err := format.ReadArray[uint16](f.data, table, ChannelSize, "anim offsets")
		if err != nil {
			return nil, errors.Wrapf(err, "sequence %s", s.Name)
		}
		ba := BoneAnimation{Bone: i}
		for j, o := range offsets {
			if o == 0 {
				continue
			}
			cells, err := format.Tail(f.data, table+int(o), "anim values")
			if err != nil {
				return nil, errors.Wrapf(format.ErrCorruptAnimation, "sequence %s bone %d: %v", s.Name, i, err)
			}
			// the last frame must be covered by the stored runs before
			// keyframes are allocated for all of them
			if s.FrameCount > 0 {
				if _, err := DecodeValue(cells, s.FrameCount-1, 1); err != nil {
					return nil, errors.Wrapf(err, "sequence %s bone %d channel %d: %d frames", s.Name, i, j, s.FrameCount)
				}
			}
			c := Channel{Index: j, Keyframes: make([]float32, s.FrameCount)}
			for fr := range c.Keyframes {
				v, err := DecodeValue(cells, fr, bones[i].Scale[j])
				if err != nil {
					return nil, errors.Wrapf(err, "sequence %s bone %d channel %d frame %d", s.Name, i, j, fr)
				}
				c.Keyframes[fr] = bones[i].Value[j] + v
			}
			ba.Channels = append(ba.Channels, c)
		}
		if len(ba.Channels) > 0 {
			a.Bones = append(a.Bones, ba)
		}
	}
	return a, nil
}

// Animations decodes the first blend of every sequence. Sequences stored in
// other files are logged and left out.
func (f *File) Animations() ([]*Animation, error) {
	seqs, err := f.Sequences()
	if err != nil {
		return nil, err
	}
	bones, err := f.Bones()
	if err != nil {
		return nil, err
	}
	var as []*Animation
	for i := range seqs {
		a, err := f.decodeSequence(&seqs[i], bones, 0)
		if errors.Is(err, format.ErrUnsupported) {
			slog.Warn("Skipping sequence", "sequence", seqs[i].Name, "err", err)
			continue
		}
		if err != nil {
			return nil, err
		}
		as = append(as, a)
	}
	return as, nil
}

// Duration returns the length of the animation in seconds.
func (a *Animation) Duration() float32 {
	if a.FPS <= 0 {
		return 0
	}
	return float32(a.FrameCount) / a.FPS
}

// Pose returns the channel values of every bone at frame, which is clamped
// to the animation. Bones without animation data keep their rest values.
func (a *Animation) Pose(bones []Bone, frame int) [][ChannelSize]float32 {
	pose := make([][ChannelSize]float32, len(bones))
	for i := range bones {
		pose[i] = bones[i].Value
	}
	if a.FrameCount == 0 {
		return pose
	}
	frame = math.Clamp(0, frame, a.FrameCount-1)
	for _, ba := range a.Bones {
		if ba.Bone >= len(pose) {
			continue
		}
		for _, c := range ba.Channels {
			pose[ba.Bone][c.Index] = c.Keyframes[frame]
		}
	}
	return pose
}
