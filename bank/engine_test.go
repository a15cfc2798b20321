package bank

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/ledgerbank/ledger"
)

func newTestEngine(t *testing.T, accounts int) (*Engine, *MemoryLog) {
	t.Helper()

	s, err := NewStore(accounts)
	require.NoError(t, err)
	log := &MemoryLog{}
	return NewEngine(s, NewRecorder(log)), log
}

func balance(t *testing.T, e *Engine, id int) int64 {
	t.Helper()

	b, err := e.Store().Balance(id)
	require.NoError(t, err)
	return b
}

func TestEngine_Deposit(t *testing.T) {
	t.Parallel()

	e, log := newTestEngine(t, 3)

	require.NoError(t, e.Deposit(0, 0, 0, 100))

	assert.Equal(t, int64(100), balance(t, e, 0))
	assert.Equal(t, Stats{Success: 1}, e.Recorder().Stats())
	assert.Equal(t, []string{"[ SUCCESS ] TID: 0, LID: 0, Acc: 0 DEPOSIT $100"}, log.Lines())
}

func TestEngine_WithdrawInsufficient(t *testing.T) {
	t.Parallel()

	e, log := newTestEngine(t, 3)
	require.NoError(t, e.Deposit(0, 0, 0, 100))

	err := e.Withdraw(1, 1, 0, 150)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	assert.Equal(t, int64(100), balance(t, e, 0))
	assert.Equal(t, Stats{Success: 1, Fail: 1}, e.Recorder().Stats())
	assert.Equal(t, "[ FAIL ] TID: 1, LID: 1, Acc: 0 WITHDRAW $150", log.Lines()[1])
}

func TestEngine_WithdrawExactBalance(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t, 1)
	require.NoError(t, e.Deposit(0, 0, 0, 40))
	require.NoError(t, e.Withdraw(0, 1, 0, 40))

	assert.Zero(t, balance(t, e, 0))
	assert.Equal(t, Stats{Success: 2}, e.Recorder().Stats())
}

func TestEngine_Transfer(t *testing.T) {
	t.Parallel()

	e, log := newTestEngine(t, 3)
	require.NoError(t, e.Deposit(0, 0, 0, 100))

	require.NoError(t, e.Transfer(2, 1, 0, 1, 50))

	assert.Equal(t, int64(50), balance(t, e, 0))
	assert.Equal(t, int64(50), balance(t, e, 1))
	assert.Equal(t, Stats{Success: 2}, e.Recorder().Stats())
	assert.Equal(t, "[ SUCCESS ] TID: 2, LID: 1, Acc: 0 TRANSFER $50 TO Acc: 1", log.Lines()[1])
}

func TestEngine_TransferDownward(t *testing.T) {
	t.Parallel()

	// Source has the higher id, so it is the second lock taken.
	e, _ := newTestEngine(t, 3)
	require.NoError(t, e.Deposit(0, 0, 2, 30))

	require.NoError(t, e.Transfer(0, 1, 2, 0, 30))
	assert.Zero(t, balance(t, e, 2))
	assert.Equal(t, int64(30), balance(t, e, 0))

	assert.ErrorIs(t, e.Transfer(0, 2, 2, 0, 1), ErrInsufficientFunds)
	assert.Zero(t, balance(t, e, 2))
	assert.Equal(t, int64(30), balance(t, e, 0))
}

func TestEngine_TransferInsufficient(t *testing.T) {
	t.Parallel()

	e, log := newTestEngine(t, 2)
	require.NoError(t, e.Deposit(0, 0, 0, 10))

	assert.ErrorIs(t, e.Transfer(0, 1, 0, 1, 11), ErrInsufficientFunds)

	assert.Equal(t, int64(10), balance(t, e, 0))
	assert.Zero(t, balance(t, e, 1))
	assert.Equal(t, Stats{Success: 1, Fail: 1}, e.Recorder().Stats())
	assert.Equal(t, "[ FAIL ] TID: 0, LID: 1, Acc: 0 TRANSFER $11 TO Acc: 1", log.Lines()[1])
}

func TestEngine_SelfTransferTakesNoLock(t *testing.T) {
	t.Parallel()

	e, log := newTestEngine(t, 3)
	require.NoError(t, e.Deposit(0, 0, 2, 25))

	// Hold every account lock: a self transfer must still complete.
	guards := make([]*Guard, 0, 3)
	for id := 0; id < 3; id++ {
		g, err := e.Store().Lock(id)
		require.NoError(t, err)
		guards = append(guards, g)
	}

	done := make(chan error, 3)
	go func() {
		for id := 0; id < 3; id++ {
			done <- e.Transfer(0, ledger.ID(id+1), id, id, 10)
		}
	}()
	for i := 0; i < 3; i++ {
		select {
		case err := <-done:
			assert.ErrorIs(t, err, ErrSelfTransfer)
		case <-time.After(5 * time.Second):
			t.Fatal("self transfer blocked on an account lock")
		}
	}
	for _, g := range guards {
		g.Unlock()
	}

	assert.Equal(t, int64(25), balance(t, e, 2))
	assert.Equal(t, Stats{Success: 1, Fail: 3}, e.Recorder().Stats())
	assert.Equal(t, "[ FAIL ] TID: 0, LID: 3, Acc: 2 TRANSFER $10 TO Acc: 2", log.Lines()[3])
}

func TestEngine_RejectsBeforeLocking(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t, 2)

	assert.ErrorIs(t, e.Deposit(0, 0, 2, 1), ErrUnknownAccount)
	assert.ErrorIs(t, e.Withdraw(0, 1, -1, 1), ErrUnknownAccount)
	assert.ErrorIs(t, e.Transfer(0, 2, 0, 9, 1), ErrUnknownAccount)
	assert.ErrorIs(t, e.Deposit(0, 3, 0, -5), ErrInvalidAmount)
	assert.ErrorIs(t, e.Withdraw(0, 4, 0, -5), ErrInvalidAmount)
	assert.ErrorIs(t, e.Transfer(0, 5, 0, 1, -5), ErrInvalidAmount)

	assert.Equal(t, Stats{Fail: 6}, e.Recorder().Stats())
	assert.Zero(t, e.Store().Total())
}

func TestEngine_ConcurrentDepositsSum(t *testing.T) {
	t.Parallel()

	const (
		workers = 8
		each    = 250
	)
	e, _ := newTestEngine(t, 1)

	var (
		wg   sync.WaitGroup
		want int64
	)
	for w := 0; w < workers; w++ {
		for n := 0; n < each; n++ {
			want += int64(w + n)
		}
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for n := 0; n < each; n++ {
				_ = e.Deposit(WorkerID(w), ledger.ID(w*each+n), 0, int64(w+n))
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, want, balance(t, e, 0))
	assert.Equal(t, Stats{Success: workers * each}, e.Recorder().Stats())
}

func TestEngine_TransfersConserveTotal(t *testing.T) {
	t.Parallel()

	const accounts = 3
	e, log := newTestEngine(t, accounts)
	for id := 0; id < accounts; id++ {
		require.NoError(t, e.Deposit(0, ledger.ID(id), id, 1000))
	}

	const (
		workers = 16
		each    = 400
	)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(w)))
			for n := 0; n < each; n++ {
				src, dst := rng.Intn(accounts), rng.Intn(accounts)
				_ = e.Transfer(WorkerID(w), ledger.ID(n), src, dst, int64(rng.Intn(300)))
			}
		}(w)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("concurrent transfers did not terminate")
	}

	assert.Equal(t, int64(accounts*1000), e.Store().Total())
	for _, b := range e.Store().Snapshot() {
		assert.GreaterOrEqual(t, b.Amount, int64(0), "account %d", b.ID)
	}

	st := e.Recorder().Stats()
	assert.Equal(t, uint64(accounts+workers*each), st.Total())
	assert.Len(t, log.Outcomes(), accounts+workers*each)
}
