package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/query"
)

const maxExtensionLength = 10

type ContractFileStore interface {
	Create(ctx context.Context, file *model.ContractFile) error
	Get(ctx context.Context, id uuid.UUID) (*model.ContractFile, error)
	Update(ctx context.Context, file *model.ContractFile) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter model.ContractFileFilter, sort query.Sort, page query.Page) (query.Result[model.ContractFile], error)
}

type ContractLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Contract, error)
}

// ObjectStorage holds file contents; keys are chosen by the storage.
type ObjectStorage interface {
	Upload(ctx context.Context, data []byte, namespace, filename string) (string, error)
	Delete(ctx context.Context, key string) error
	PresignedURL(ctx context.Context, key string) (string, error)
}

type ContractFileService struct {
	files     ContractFileStore
	contracts ContractLookup
	storage   ObjectStorage
	log       zerolog.Logger
}

func NewContractFileService(files ContractFileStore, contracts ContractLookup, storage ObjectStorage, log zerolog.Logger) *ContractFileService {
	return &ContractFileService{files: files, contracts: contracts, storage: storage, log: log}
}

type CreateContractFileInput struct {
	ContractID uuid.UUID
	// Name overrides the display name derived from the upload filename.
	Name   *string
	Upload model.Upload
}

type UpdateContractFileInput struct {
	ContractID *uuid.UUID
	Name       *string
	Upload     *model.Upload
}

func (s *ContractFileService) Create(ctx context.Context, p model.Principal, input CreateContractFileInput) (*model.ContractFile, error) {
	if len(input.Upload.Data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}
	contract, err := s.contracts.Get(ctx, input.ContractID)
	if err != nil {
		return nil, notFound(err, "contract")
	}
	if err := ensureCompany(p, contract.CompanyID); err != nil {
		return nil, err
	}

	filename := uploadFilename(input.Upload.Filename)
	name, extension := splitFilename(filename)
	if input.Name != nil {
		name = *input.Name
	}

	key, err := s.storage.Upload(ctx, input.Upload.Data, contract.ID.String(), filename)
	if err != nil {
		return nil, fmt.Errorf("upload contract file: %w", err)
	}

	file := &model.ContractFile{
		ID:         uuid.New(),
		Name:       name,
		Extension:  extension,
		StorageKey: key,
		ContractID: contract.ID,
		CreatedBy:  p.UserID,
		ModifiedBy: p.UserID,
	}
	if err := s.files.Create(ctx, file); err != nil {
		s.log.Error().Err(err).Str("s3_key", key).Msg("contract file row not saved, object left orphaned")
		return nil, err
	}
	s.log.Info().Str("contract_file_id", file.ID.String()).Int("size", len(input.Upload.Data)).Msg("contract file uploaded")
	return file, nil
}

// Update moves the file to another contract, renames it or replaces its contents.
// A replacement deletes the old object before uploading the new one.
func (s *ContractFileService) Update(ctx context.Context, p model.Principal, id uuid.UUID, input UpdateContractFileInput) (*model.ContractFile, error) {
	file, err := s.files.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "contract file")
	}
	owner, err := s.owner(ctx, file)
	if err != nil {
		return nil, err
	}
	if err := ensureCompany(p, owner.CompanyID); err != nil {
		return nil, err
	}

	if input.ContractID != nil && *input.ContractID != file.ContractID {
		target, err := s.contracts.Get(ctx, *input.ContractID)
		if err != nil {
			return nil, notFound(err, "contract")
		}
		if err := ensureCompany(p, target.CompanyID); err != nil {
			return nil, err
		}
		file.ContractID = target.ID
	}

	if input.Upload != nil {
		if len(input.Upload.Data) == 0 {
			return nil, fmt.Errorf("%w: file is empty", ErrInvalidInput)
		}
		filename := uploadFilename(input.Upload.Filename)

		if err := s.storage.Delete(ctx, file.StorageKey); err != nil {
			return nil, fmt.Errorf("delete previous object: %w", err)
		}
		key, err := s.storage.Upload(ctx, input.Upload.Data, file.ContractID.String(), filename)
		if err != nil {
			return nil, fmt.Errorf("upload contract file: %w", err)
		}
		file.StorageKey = key
		file.Name, file.Extension = splitFilename(filename)
	}
	if input.Name != nil {
		file.Name = *input.Name
	}
	file.ModifiedBy = p.UserID
	file.Contract = nil

	if err := s.files.Update(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

// Delete removes the row even when the object could not be deleted from storage.
func (s *ContractFileService) Delete(ctx context.Context, p model.Principal, id uuid.UUID) error {
	file, err := s.authorized(ctx, p, id)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, file.StorageKey); err != nil {
		s.log.Warn().Err(err).Str("s3_key", file.StorageKey).Msg("failed to delete contract file object")
	}
	return notFound(s.files.Delete(ctx, id), "contract file")
}

func (s *ContractFileService) Get(ctx context.Context, p model.Principal, id uuid.UUID) (*model.ContractFile, error) {
	return s.authorized(ctx, p, id)
}

func (s *ContractFileService) DownloadURL(ctx context.Context, p model.Principal, id uuid.UUID) (string, error) {
	file, err := s.authorized(ctx, p, id)
	if err != nil {
		return "", err
	}
	url, err := s.storage.PresignedURL(ctx, file.StorageKey)
	if err != nil {
		return "", fmt.Errorf("presign contract file: %w", err)
	}
	return url, nil
}

func (s *ContractFileService) List(ctx context.Context, p model.Principal, filter model.ContractFileFilter, sort query.Sort, page query.Page) (query.Result[model.ContractFile], error) {
	scope, err := listScope(p)
	if err != nil {
		return query.Result[model.ContractFile]{}, err
	}
	filter.CompanyID = scope
	return s.files.List(ctx, filter, sort, page)
}

func (s *ContractFileService) authorized(ctx context.Context, p model.Principal, id uuid.UUID) (*model.ContractFile, error) {
	file, err := s.files.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "contract file")
	}
	owner, err := s.owner(ctx, file)
	if err != nil {
		return nil, err
	}
	if err := ensureCompany(p, owner.CompanyID); err != nil {
		return nil, err
	}
	return file, nil
}

func (s *ContractFileService) owner(ctx context.Context, file *model.ContractFile) (*model.Contract, error) {
	if file.Contract != nil {
		return file.Contract, nil
	}
	contract, err := s.contracts.Get(ctx, file.ContractID)
	if err != nil {
		return nil, notFound(err, "contract")
	}
	return contract, nil
}

func uploadFilename(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "Unknown"
	}
	return name
}

// splitFilename splits on the last dot; a name without a dot has no extension.
func splitFilename(filename string) (string, string) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return filename, ""
	}
	name, extension := filename[:idx], filename[idx+1:]
	for utf8.RuneCountInString(extension) > maxExtensionLength {
		_, size := utf8.DecodeLastRuneInString(extension)
		extension = extension[:len(extension)-size]
	}
	return name, extension
}
