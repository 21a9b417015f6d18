package cpu

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

//go:generate mockgen -write_package_comment=false -package=$GOPACKAGE -destination=mock_channel_test.go github.com/ezrec/duet/io Channel

func TestCpu_ChannelOrder(t *testing.T) {
	assert := assert.New(t)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inbox := NewMockChannel(ctrl)
	outbox := NewMockChannel(ctrl)

	gomock.InOrder(
		outbox.EXPECT().Send(int64(3)).Return(nil),
		inbox.EXPECT().Receive().Return(int64(0), false),
		inbox.EXPECT().Receive().Return(int64(-8), true),
		outbox.EXPECT().Send(int64(-5)).Return(nil),
	)

	cpu := NewCpu(NewProgram(DIALECT_DUET,
		Set(Reg('a'), Const(3)),
		Snd(Reg('a')),
		Rcv(Reg('b')),
		Add(Reg('b'), Reg('a')),
		Snd(Reg('b')),
	))
	cpu.SetChannels(inbox, outbox)

	// The first rcv finds nothing, and waits.
	assert.NoError(cpu.Run())
	assert.Equal(STATUS_WAITING, cpu.Status)
	assert.Equal(int64(2), cpu.Ip)

	// The retried rcv receives exactly once.
	assert.NoError(cpu.Run())
	assert.Equal(STATUS_ENDED, cpu.Status)
	assert.Equal(2, cpu.Sent)
	assert.Equal(1, cpu.Received)
}

func TestCpu_ChannelSendError(t *testing.T) {
	assert := assert.New(t)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	broken := errors.New("broken")

	inbox := NewMockChannel(ctrl)
	outbox := NewMockChannel(ctrl)
	outbox.EXPECT().Send(gomock.Any()).Return(broken)

	cpu := NewCpu(NewProgram(DIALECT_DUET,
		Snd(Const(1)),
		Snd(Const(2)),
	))
	cpu.SetChannels(inbox, outbox)

	err := cpu.Run()
	assert.ErrorIs(err, broken)
	assert.ErrorIs(err, ErrOpcodeIo)
	assert.Equal(STATUS_ENDED, cpu.Status)
	assert.Equal(0, cpu.Sent)
	assert.Equal(int64(0), cpu.Ip)
}
