package main

import (
	"fmt"
	"log"
	"os"

	"github.com/bietkhonhungvandi212/bufferpool/internal/config"
	"github.com/bietkhonhungvandi212/bufferpool/internal/storage/buffer"
	"github.com/bietkhonhungvandi212/bufferpool/internal/storage/disk"
)

func main() {
	tmp, err := os.CreateTemp("", "bufferpool-demo-*.dat")
	if err != nil {
		log.Fatalf("create temp file: %v", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	mgr, err := disk.NewManager(path, 8)
	if err != nil {
		log.Fatalf("open disk manager: %v", err)
	}
	defer mgr.Close()

	const poolSize = 3
	pool := buffer.New(poolSize, mgr, config.WithK(2), config.WithBucketCapacity(2))

	pid, frame, ok := pool.NewPage()
	if !ok {
		log.Fatal("new_page: pool exhausted")
	}
	copy(frame.Data[:11], []byte("hello world"))
	pool.UnpinPage(pid, true)

	// Allocate more pages than the pool holds, forcing eviction pressure
	// on the page we just wrote. Each pressure page is unpinned as soon
	// as it's created so its frame becomes an eviction candidate for the
	// next allocation (and, eventually, for the refetch below).
	for i := 0; i < poolSize; i++ {
		pressureID, _, ok := pool.NewPage()
		if !ok {
			log.Fatal("new_page: pool exhausted under pressure")
		}
		pool.UnpinPage(pressureID, false)
	}

	fetched, ok := pool.FetchPage(pid)
	if !ok {
		log.Fatalf("fetch_page(%d): not found after eviction", pid)
	}
	defer pool.UnpinPage(pid, false)

	roundTripped := string(fetched.Data[:11]) == "hello world"
	fmt.Printf("page %d round-tripped through eviction: %v\n", pid, roundTripped)
	fmt.Printf("pool stats: %+v\n", pool.Stats())
}
