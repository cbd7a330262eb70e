package kyc

import "agrimandi/utils"

// ConsentPresenter models the external browsing context in which the user
// completes the consent step. The session manager opens it; only the poller
// closes it, on reaching a terminal state.
type ConsentPresenter interface {
	Open(url string) (handle string, err error)
	Close(handle string)
}

// RedirectPresenter is the production presenter: the consent URL is handed
// back to the client, which owns the actual browser context. Open returns
// the URL itself as the handle and Close is a logged no-op.
type RedirectPresenter struct{}

func (RedirectPresenter) Open(url string) (string, error) {
	return url, nil
}

func (RedirectPresenter) Close(handle string) {
	utils.GetLogger().Debug("consent context released: " + handle)
}
