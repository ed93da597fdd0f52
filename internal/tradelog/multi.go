package tradelog

import (
	"context"
	"errors"
)

// Multi пишет запись во все журналы; ошибка одного не мешает остальным.
type Multi []Journal

func (m Multi) Record(ctx context.Context, e Entry) error {
	var errs []error
	for _, j := range m {
		if err := j.Record(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, j := range m {
		errs = append(errs, j.Close())
	}
	return errors.Join(errs...)
}
