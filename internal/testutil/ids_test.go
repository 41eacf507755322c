package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialIDs(t *testing.T) {
	g := NewSequentialIDs("")

	assert.Equal(t, "req-0001", g.Generate())
	assert.Equal(t, "req-0002", g.Generate())

	g.Reset()
	assert.Equal(t, "req-0001", g.Generate())
}

func TestSequentialIDsConcurrent(t *testing.T) {
	g := NewSequentialIDs("plan")

	var wg sync.WaitGroup
	seen := sync.Map{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen.Store(g.Generate(), true)
		}()
	}
	wg.Wait()

	count := 0
	seen.Range(func(_, _ any) bool { count++; return true })
	assert.Equal(t, 50, count, "ids must be unique under concurrency")
}

func TestClinicalSchemaIsConsistent(t *testing.T) {
	s := ClinicalSchema()

	for _, j := range s.Joins {
		assert.True(t, s.HasTable(j.LeftTable), j.LeftTable)
		assert.True(t, s.HasTable(j.RightTable), j.RightTable)
	}
	assert.Equal(t, "PATIENT", s.TableNames()[0])
}
