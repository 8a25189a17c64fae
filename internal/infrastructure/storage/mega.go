package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	mega "github.com/t3rm1n4l/go-mega"

	"gallery-backend/internal/config"
	"gallery-backend/internal/shared/apperror"
	"gallery-backend/pkg/logger"
)

const providerMega = "mega"

var errMegaNotFound = errors.New("file not found")

// MegaStorage lưu file trên Mega cloud drive.
// Remote id là node hash, delivery URL là public link (kèm key).
// Mega has no expiring links, so Private is rejected.
type MegaStorage struct {
	client *mega.Mega
	root   *mega.Node
	limits Limits
	images *ImageProcessor

	mu      sync.Mutex // serializes folder creation
	folders map[string]*mega.Node
	links   sync.Map // exported link id -> node hash
}

// NewMegaStorage đăng nhập và chuẩn bị thư mục gốc (tạo nếu chưa có)
func NewMegaStorage(cfg config.MegaConfig, images *ImageProcessor) (*MegaStorage, error) {
	limits, err := NewLimits(cfg.Limits)
	if err != nil {
		return nil, fmt.Errorf("mega limits: %w", err)
	}
	if cfg.Email == "" || cfg.Password == "" {
		return nil, fmt.Errorf("MEGA_EMAIL and MEGA_PASSWORD are required")
	}

	client := mega.New()
	client.SetLogger(func(format string, v ...any) {
		logger.Debug("mega", map[string]interface{}{"msg": fmt.Sprintf(format, v...)})
	})
	if err := client.Login(cfg.Email, cfg.Password); err != nil {
		return nil, fmt.Errorf("mega login failed: %w", err)
	}

	if images == nil {
		images = NewImageProcessor(0)
	}

	s := &MegaStorage{
		client:  client,
		root:    client.FS.GetRoot(),
		limits:  limits,
		images:  images,
		folders: map[string]*mega.Node{},
	}

	root, err := s.folder(cfg.Folder)
	if err != nil {
		return nil, err
	}
	s.root = root
	s.folders = map[string]*mega.Node{"": root}

	return s, nil
}

func (s *MegaStorage) Name() string { return providerMega }

func (s *MegaStorage) Upload(_ context.Context, file File, opts UploadOptions) (*UploadResult, error) {
	if err := s.limits.Check(file); err != nil {
		return nil, err
	}

	data, err := file.Bytes()
	if err != nil {
		return nil, apperror.Storage(providerMega, "upload", "", err)
	}
	data, info, _, err := s.images.Fit(data)
	if err != nil {
		return nil, apperror.Storage(providerMega, "upload", "", err)
	}

	parent, err := s.folder(opts.Folder)
	if err != nil {
		return nil, apperror.Storage(providerMega, "upload", "", err)
	}

	name := objectName(file, opts, fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8]))
	node, err := s.uploadBytes(parent, name, data)
	if err != nil {
		return nil, apperror.Storage(providerMega, "upload", name, err)
	}

	link, err := s.link(node)
	if err != nil {
		return nil, apperror.Storage(providerMega, "upload", node.GetHash(), err)
	}

	return &UploadResult{
		RemoteID:  node.GetHash(),
		URL:       link,
		SecureURL: link,
		Width:     info.Width,
		Height:    info.Height,
		Format:    file.Extension(),
		Bytes:     int64(len(data)),
	}, nil
}

func (s *MegaStorage) Delete(_ context.Context, remoteID string) error {
	node := s.client.FS.HashLookup(remoteID)
	if node == nil {
		return apperror.Storage(providerMega, "delete", remoteID, errMegaNotFound)
	}
	if err := s.client.Delete(node, true); err != nil {
		return apperror.Storage(providerMega, "delete", remoteID, err)
	}
	return nil
}

// GenerateURL returns the public link of the node; transforms are ignored
func (s *MegaStorage) GenerateURL(_ context.Context, remoteID string, opts URLOptions) (string, error) {
	if opts.Private {
		return "", apperror.Storage(providerMega, "generate url", remoteID, errors.New("signed expiring urls are not supported"))
	}
	node := s.client.FS.HashLookup(remoteID)
	if node == nil {
		return "", apperror.Storage(providerMega, "generate url", remoteID, errMegaNotFound)
	}
	link, err := s.link(node)
	if err != nil {
		return "", apperror.Storage(providerMega, "generate url", remoteID, err)
	}
	return link, nil
}

// ResolveID maps a public link back to the node hash. Links created by this
// process are cached; otherwise the configured folder tree is scanned.
func (s *MegaStorage) ResolveID(rawURL string) (string, error) {
	linkID, err := parseMegaLink(rawURL)
	if err != nil {
		return "", apperror.Storage(providerMega, "resolve id", "", err)
	}
	if hash, ok := s.links.Load(linkID); ok {
		return hash.(string), nil
	}

	hash, err := s.scanFor(s.root, linkID)
	if err != nil {
		return "", apperror.Storage(providerMega, "resolve id", linkID, err)
	}
	return hash, nil
}

func (s *MegaStorage) scanFor(dir *mega.Node, linkID string) (string, error) {
	children, err := s.client.FS.GetChildren(dir)
	if err != nil {
		return "", err
	}
	for _, child := range children {
		switch child.GetType() {
		case mega.FOLDER:
			if hash, err := s.scanFor(child, linkID); err == nil {
				return hash, nil
			}
		case mega.FILE:
			link, err := s.link(child)
			if err != nil {
				continue
			}
			if id, _ := parseMegaLink(link); id == linkID {
				return child.GetHash(), nil
			}
		}
	}
	return "", errMegaNotFound
}

func (s *MegaStorage) link(node *mega.Node) (string, error) {
	link, err := s.client.Link(node, true)
	if err != nil {
		return "", err
	}
	if id, err := parseMegaLink(link); err == nil {
		s.links.Store(id, node.GetHash())
	}
	return link, nil
}

// uploadBytes streams data in the chunk layout chosen by the Mega API
func (s *MegaStorage) uploadBytes(parent *mega.Node, name string, data []byte) (*mega.Node, error) {
	up, err := s.client.NewUpload(parent, name, int64(len(data)))
	if err != nil {
		return nil, err
	}
	for id := 0; id < up.Chunks(); id++ {
		pos, size, err := up.ChunkLocation(id)
		if err != nil {
			return nil, err
		}
		if err := up.UploadChunk(id, data[pos:pos+int64(size)]); err != nil {
			return nil, err
		}
	}
	return up.Finish()
}

// folder trả node cho path "a/b/c" dưới root, tạo các thư mục còn thiếu
func (s *MegaStorage) folder(path string) (*mega.Node, error) {
	path = strings.Trim(path, "/")

	s.mu.Lock()
	defer s.mu.Unlock()

	if node, ok := s.folders[path]; ok {
		return node, nil
	}

	current := s.root
	if path == "" {
		return current, nil
	}
	for _, name := range strings.Split(path, "/") {
		next, err := s.childFolder(current, name)
		if err != nil {
			return nil, fmt.Errorf("mega folder %q: %w", path, err)
		}
		current = next
	}
	s.folders[path] = current
	return current, nil
}

func (s *MegaStorage) childFolder(parent *mega.Node, name string) (*mega.Node, error) {
	children, err := s.client.FS.GetChildren(parent)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if child.GetType() == mega.FOLDER && child.GetName() == name {
			return child, nil
		}
	}
	return s.client.CreateDir(name, parent)
}

// parseMegaLink xử lý cả 2 format:
//
//	https://mega.co.nz/#!<id>!<key>
//	https://mega.nz/file/<id>#<key>
func parseMegaLink(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q", rawURL)
	}
	if strings.HasPrefix(u.Fragment, "!") {
		parts := strings.Split(strings.TrimPrefix(u.Fragment, "!"), "!")
		if parts[0] != "" {
			return parts[0], nil
		}
	}
	if rest, ok := strings.CutPrefix(strings.Trim(u.Path, "/"), "file/"); ok && rest != "" {
		return rest, nil
	}
	return "", fmt.Errorf("url %q is not a mega link", rawURL)
}
