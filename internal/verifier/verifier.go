// Package verifier confirms exact duplicate groups by hashing file
// contents for ModelCheck.
package verifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/dbsmedya/modelcheck/internal/dupes"
	"github.com/dbsmedya/modelcheck/internal/logger"
)

// MemberHash holds the content hash of one group member's file.
type MemberHash struct {
	Path string
	Hash string
}

// VerifyResult holds verification results for a single duplicate group.
type VerifyResult struct {
	GroupID      int
	Instances    int
	Members      []MemberHash
	Confirmed    bool
	ErrorMessage string
}

// VerifyStats contains overall verification statistics.
type VerifyStats struct {
	GroupsVerified   int
	GroupsConfirmed  int
	GroupsMismatched int
	GroupsUnreadable int
	FilesHashed      int
	BytesHashed      int64
}

// Verifier hashes the files behind exact duplicate groups to confirm
// their contents really match. Matching name and size is strong
// evidence, not proof.
type Verifier struct {
	bufferSize int
	logger     *logger.Logger
}

// NewVerifier creates a content verifier.
func NewVerifier(log *logger.Logger) *Verifier {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Verifier{
		bufferSize: 1 << 20, // 1 MiB read buffer
		logger:     log,
	}
}

// SetBufferSize sets the read buffer size used while hashing.
func (v *Verifier) SetBufferSize(size int) {
	if size > 0 {
		v.bufferSize = size
	}
}

// Verify hashes every member of every group. A group is confirmed when
// all members hash identically. Unreadable files mark the group instead
// of aborting the run; only context cancellation stops verification
// early.
func (v *Verifier) Verify(ctx context.Context, groups []dupes.Group) ([]VerifyResult, *VerifyStats, error) {
	stats := &VerifyStats{}
	results := make([]VerifyResult, 0, len(groups))

	v.logger.Infof("Starting content verification for %d duplicate groups", len(groups))

	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return results, stats, fmt.Errorf("verification interrupted: %w", err)
		}

		result, err := v.verifyGroup(ctx, group, stats)
		if err != nil {
			return results, stats, err
		}

		stats.GroupsVerified++
		switch {
		case result.Confirmed:
			stats.GroupsConfirmed++
			v.logger.Debugf("Verification PASSED for group %d (%d files)", group.ID, group.Instances)
		case len(result.Members) < group.Instances:
			stats.GroupsUnreadable++
			v.logger.Warnf("Verification SKIPPED for group %d: %s", group.ID, result.ErrorMessage)
		default:
			stats.GroupsMismatched++
			v.logger.Errorf("Verification FAILED for group %d: %s", group.ID, result.ErrorMessage)
		}
		results = append(results, *result)
	}

	v.logger.Infof("Verification complete: %d groups verified, %d confirmed, %d mismatched, %d unreadable",
		stats.GroupsVerified, stats.GroupsConfirmed, stats.GroupsMismatched, stats.GroupsUnreadable)

	return results, stats, nil
}

func (v *Verifier) verifyGroup(ctx context.Context, group dupes.Group, stats *VerifyStats) (*VerifyResult, error) {
	result := &VerifyResult{
		GroupID:   group.ID,
		Instances: group.Instances,
	}

	for _, member := range group.Members {
		path := member.Path()
		hash, n, err := v.hashFile(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("verification interrupted: %w", err)
			}
			result.ErrorMessage = fmt.Sprintf("cannot hash %s: %v", path, err)
			return result, nil
		}
		result.Members = append(result.Members, MemberHash{Path: path, Hash: hash})
		stats.FilesHashed++
		stats.BytesHashed += n
	}

	result.Confirmed = true
	for i := 1; i < len(result.Members); i++ {
		if result.Members[i].Hash != result.Members[0].Hash {
			result.Confirmed = false
			result.ErrorMessage = fmt.Sprintf("hash mismatch: %s=%s, %s=%s",
				result.Members[0].Path, result.Members[0].Hash[:16],
				result.Members[i].Path, result.Members[i].Hash[:16])
			break
		}
	}

	return result, nil
}

// hashFile computes the SHA256 hex digest of the file at path, reading
// in buffered chunks so multi-gigabyte model files never load whole.
func (v *Verifier) hashFile(ctx context.Context, path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	hasher := sha256.New()
	buf := make([]byte, v.bufferSize)
	var total int64

	for {
		if err := ctx.Err(); err != nil {
			return "", total, err
		}
		n, err := f.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
			total += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", total, err
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), total, nil
}
