package cpc

import "testing"

type recordingAudioSink struct {
	samples [][2]int16
}

func (s *recordingAudioSink) Push(l, r int16) bool {
	s.samples = append(s.samples, [2]int16{l, r})
	return true
}

func TestAudioMixerSetSoundRateComputesSkipDivider(t *testing.T) {
	p := newPSG()
	m := newAudioMixer(p, nil)
	m.setSoundRate(frameTime50Hz, false)

	want := uint32(baseClockCPC / sampleRateHz)
	if m.skip != want {
		t.Fatalf("skip = %d, want %d", m.skip, want)
	}
	if m.skipLeft != m.skip {
		t.Fatalf("skipLeft = %d, want freshly reloaded to %d", m.skipLeft, m.skip)
	}
}

func TestAudioMixerFilterAveragesLoadPulses(t *testing.T) {
	p := newPSG()
	m := newAudioMixer(p, nil)

	for i := 0; i < filterBzzSize; i++ {
		m.pushFilterSample(0x40, false)
	}

	var sum int32
	for _, v := range m.filter {
		sum += v
	}
	if sum != int32(filterBzzSize*tapeLoadVolume) {
		t.Fatalf("filter sum = %d, want %d", sum, filterBzzSize*tapeLoadVolume)
	}
}

func TestAudioMixerTickSampleFiresOnSkipBoundary(t *testing.T) {
	p := newPSG()
	sink := &recordingAudioSink{}
	m := newAudioMixer(p, sink)
	m.skip = 4
	m.skipLeft = 4
	m.tail = 0

	for i := 0; i < 4; i++ {
		m.tickSample()
	}
	if len(sink.samples) != 1 {
		t.Fatalf("samples pushed = %d, want exactly 1 after %d ticks at skip=4", len(sink.samples), 4)
	}
}

func TestAudioMixerStereoModesSubtractDifferentChannels(t *testing.T) {
	p := newPSG()
	// Tone and noise off on all channels: each outputs its fixed amplitude
	// (psg.sample() recomputes the channel levels from these registers).
	p.regs[7] = 0x3F
	p.regs[8], p.regs[9], p.regs[10] = 0x0F, 0x0D, 0x0B
	a, b, c := psgVolumeTable[15], psgVolumeTable[13], psgVolumeTable[11]

	monoSink := &recordingAudioSink{}
	mono := newAudioMixer(p, monoSink)
	mono.stereo = StereoMono
	mono.sample()

	abcSink := &recordingAudioSink{}
	abc := newAudioMixer(p, abcSink)
	abc.stereo = StereoABC
	abc.sample()

	if len(monoSink.samples) != 1 || len(abcSink.samples) != 1 {
		t.Fatalf("samples pushed = %d mono, %d ABC, want 1 each", len(monoSink.samples), len(abcSink.samples))
	}
	if got, want := monoSink.samples[0], [2]int16{int16(-(a + b + c)), int16(-(a + b + c))}; got != want {
		t.Fatalf("mono sample = %v, want %v", got, want)
	}
	if got, want := abcSink.samples[0], [2]int16{int16(-(a + b)), int16(-(b + c))}; got != want {
		t.Fatalf("ABC sample = %v, want %v", got, want)
	}
}

func TestClampSampleSaturates(t *testing.T) {
	if got := clampSample(40000); got != 32767 {
		t.Fatalf("clampSample(40000) = %d, want 32767", got)
	}
	if got := clampSample(-40000); got != -32768 {
		t.Fatalf("clampSample(-40000) = %d, want -32768", got)
	}
	if got := clampSample(100); got != 100 {
		t.Fatalf("clampSample(100) = %d, want 100", got)
	}
}
