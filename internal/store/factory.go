package store

// Options задаёт параметры выбора хранилища записей.
type Options struct {
	DatabaseURI string
	StorageFile string
}

// Open выбирает хранилище по конфигурации: PostgreSQL при заданном
// DatabaseURI, файл при заданном StorageFile, иначе память процесса.
func Open(opts Options) (Store, error) {
	if opts.DatabaseURI != "" {
		return NewPostgres(opts.DatabaseURI)
	}
	if opts.StorageFile != "" {
		return NewFile(opts.StorageFile), nil
	}
	return NewMemory(), nil
}
