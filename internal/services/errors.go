package services

import "errors"

// 业务错误定义。handler层通过 errors.Is 映射到HTTP状态码，
// 基础设施错误（数据库不可达等）原样向上传播。
var (
	// 角色
	ErrSystemRole          = errors.New("les rôles système ne peuvent pas être modifiés")
	ErrRoleInUse           = errors.New("ce rôle est utilisé par des utilisateurs et ne peut pas être supprimé")
	ErrCannotManageRole    = errors.New("vous n'avez pas la permission de gérer ce rôle")
	ErrLevelNotBelowParent = errors.New("le niveau du rôle doit être inférieur au rôle parent")
	ErrRoleCycle           = errors.New("un rôle ne peut pas être son propre ancêtre")
	ErrRoleNameTaken       = errors.New("un rôle avec ce nom existe déjà")
	ErrNoRoleAssigned      = errors.New("rôle utilisateur non trouvé")

	// 用户
	ErrEmailTaken = errors.New("cet email est déjà utilisé")

	// 刷新令牌（四种失败必须可区分，HTTP层统一折叠为401）
	ErrRefreshTokenNotFound = errors.New("refresh token invalide")
	ErrRefreshTokenRevoked  = errors.New("refresh token révoqué")
	ErrRefreshTokenExpired  = errors.New("refresh token expiré")
	ErrUserInactive         = errors.New("utilisateur désactivé")

	// 账务
	ErrInsufficientStock = errors.New("stock insuffisant")
	ErrClientRequired    = errors.New("un client est requis pour une vente à crédit")
	ErrCreditAlreadyPaid = errors.New("ce crédit est déjà payé")
	ErrOverPayment       = errors.New("montant supérieur au reste dû")

	// 产品
	ErrPriceBelowCost   = errors.New("le prix de vente doit être supérieur au prix d'achat")
	ErrProductCodeTaken = errors.New("un produit avec ce code existe déjà")
	ErrInvalidQuantity  = errors.New("la quantité doit être supérieure à 0")

	// 客户
	ErrPhoneTaken = errors.New("un client avec ce téléphone existe déjà")
)
