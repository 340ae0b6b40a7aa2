package schema

import "github.com/dmitrijs2005/gatherly/internal/common"

const (
	TableEvents        = common.TableEvents
	TableInvitations   = common.TableInvitations
	TableWishlistItems = common.TableWishlistItems
	TableEventPhotos   = common.TableEventPhotos
	TableUserProfiles  = common.TableUserProfiles
)
